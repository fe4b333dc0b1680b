package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/stage"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
)

// parseAssignments splits repeated field=value flags. The value may be empty.
func parseAssignments(flag string, values []string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for _, v := range values {
		field, value, ok := strings.Cut(v, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, errs.Validation([]errs.FieldError{{
				Field:   flag,
				Message: fmt.Sprintf("%q is not field=value", v),
			}})
		}
		out[field] = value
	}
	return out, nil
}

// parseDates turns --fecha field=YYYY-MM-DD flags into stage dates.
func parseDates(values []string) (map[string]time.Time, error) {
	raw, err := parseAssignments("fecha", values)
	if err != nil {
		return nil, err
	}

	dates := make(map[string]time.Time, len(raw))
	var fes []errs.FieldError
	for field, v := range raw {
		d, err := stage.ParseDate(v)
		if err != nil {
			fes = append(fes, errs.FieldError{Field: field, Message: err.Error()})
			continue
		}
		dates[field] = d
	}
	if len(fes) > 0 {
		return nil, errs.Validation(fes)
	}
	return dates, nil
}

// parseDateEdits is parseDates for updates: an empty value clears the stage.
func parseDateEdits(values []string) (map[string]*time.Time, error) {
	raw, err := parseAssignments("fecha", values)
	if err != nil || len(raw) == 0 {
		return nil, err
	}

	dates := make(map[string]*time.Time, len(raw))
	var fes []errs.FieldError
	for field, v := range raw {
		if strings.TrimSpace(v) == "" {
			dates[field] = nil
			continue
		}
		d, err := stage.ParseDate(v)
		if err != nil {
			fes = append(fes, errs.FieldError{Field: field, Message: err.Error()})
			continue
		}
		dates[field] = &d
	}
	if len(fes) > 0 {
		return nil, errs.Validation(fes)
	}
	return dates, nil
}

// parseObservationEdits maps --obs field=text flags; empty text clears.
func parseObservationEdits(values []string) (map[string]*string, error) {
	raw, err := parseAssignments("obs", values)
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	out := make(map[string]*string, len(raw))
	for field, v := range raw {
		if v == "" {
			out[field] = nil
			continue
		}
		text := v
		out[field] = &text
	}
	return out, nil
}
