package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ctxutil"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// PromptConfirmer asks yes/no questions on a terminal. A context marked with
// ctxutil.WithAssumeYes answers yes without prompting.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptConfirmer creates a confirmer reading answers from in.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm prints question and reads one line. Only y/yes/s/si/sí confirm;
// end of input declines.
func (c *PromptConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	if ctxutil.AssumeYes(ctx) {
		return true, nil
	}

	fmt.Fprintf(c.out, "%s [y/N]: ", question)
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "s", "si", "sí":
		return true, nil
	default:
		return false, nil
	}
}

// AutoConfirmer answers every question with a fixed answer. Used where no
// operator is present to ask, such as the HTTP API.
type AutoConfirmer struct {
	Answer bool
}

// Confirm returns the fixed answer.
func (c AutoConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	return c.Answer, nil
}

var (
	_ secondary.Confirmer = (*PromptConfirmer)(nil)
	_ secondary.Confirmer = AutoConfirmer{}
)
