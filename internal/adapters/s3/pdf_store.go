// Package s3 stores document content in an S3-compatible bucket.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/document"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// DefaultURLExpiry is how long a resolved download URL stays valid.
const DefaultURLExpiry = 15 * time.Minute

// Config selects the bucket and how to reach it.
type Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string // set for S3-compatible services such as MinIO or LocalStack
	UsePathStyle    bool
	AccessKeyID     string
	SecretAccessKey string
	URLExpiry       time.Duration
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presignAPI interface {
	presignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

type presigner struct {
	client *s3.PresignClient
}

func (p presigner) presignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	req, err := p.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PDFStore implements secondary.DocumentStore on S3. Document ids are UUIDs
// and objects live at <prefix>/<id>.pdf.
type PDFStore struct {
	objects   objectAPI
	presigner presignAPI
	bucket    string
	prefix    string
	expiry    time.Duration
}

// NewPDFStore builds a store from the default AWS configuration chain,
// overridden by the non-empty fields of cfg.
func NewPDFStore(ctx context.Context, cfg Config) (*PDFStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newPDFStore(client, presigner{s3.NewPresignClient(client)}, cfg), nil
}

func newPDFStore(objects objectAPI, p presignAPI, cfg Config) *PDFStore {
	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}
	return &PDFStore{
		objects:   objects,
		presigner: p,
		bucket:    cfg.Bucket,
		prefix:    strings.Trim(cfg.Prefix, "/"),
		expiry:    expiry,
	}
}

func (s *PDFStore) key(id string) string {
	if s.prefix == "" {
		return id + ".pdf"
	}
	return s.prefix + "/" + id + ".pdf"
}

// Upload puts the content under a new id. The body is buffered so the SDK
// can sign it; it is bounded by the document size limit.
func (s *PDFStore) Upload(ctx context.Context, req secondary.DocumentUpload) (*secondary.DocumentRecord, error) {
	body, err := io.ReadAll(io.LimitReader(req.Body, document.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if int64(len(body)) > document.MaxFileSize {
		return nil, errs.Validation([]errs.FieldError{{Field: "file", Message: "file exceeds the 5 MiB limit"}})
	}

	id := uuid.NewString()
	_, err = s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(id)),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(req.ContentType),
		Metadata: map[string]string{
			"tramite-id": req.TramiteID,
			"kind":       req.Kind,
			"file-name":  req.FileName,
		},
	})
	if err != nil {
		return nil, errs.Wrap(err, errs.KindTransport, "failed to upload document to s3")
	}

	return &secondary.DocumentRecord{
		ID:          id,
		TramiteID:   req.TramiteID,
		Kind:        req.Kind,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        int64(len(body)),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// ResolveURL presigns a GET for an existing object.
func (s *PDFStore) ResolveURL(ctx context.Context, id string) (string, error) {
	if err := s.exists(ctx, id); err != nil {
		return "", err
	}
	u, err := s.presigner.presignGet(ctx, s.bucket, s.key(id), s.expiry)
	if err != nil {
		return "", errs.Wrap(err, errs.KindTransport, "failed to presign document url")
	}
	return u, nil
}

// Delete removes the object. A missing object is reported as not found.
func (s *PDFStore) Delete(ctx context.Context, id string) error {
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	_, err := s.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return errs.Wrap(err, errs.KindTransport, "failed to delete document from s3")
	}
	return nil
}

func (s *PDFStore) exists(ctx context.Context, id string) error {
	_, err := s.objects.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err == nil {
		return nil
	}
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	if errors.As(err, &nf) || errors.As(err, &nsk) {
		return errs.Newf(errs.KindNotFound, "document %s not found", id)
	}
	return errs.Wrap(err, errs.KindTransport, "failed to look up document in s3")
}

var _ secondary.DocumentStore = (*PDFStore)(nil)
