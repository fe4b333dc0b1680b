package stage

import (
	"fmt"
	"time"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// IsStageUnlocked reports whether every stage before i has a date.
// Stage 1 is always unlocked.
func IsStageUnlocked(i Index, d Dates) bool {
	if _, ok := ByIndex(i); !ok {
		return false
	}
	for _, s := range schema[:i-1] {
		if _, ok := d.Get(s); !ok {
			return false
		}
	}
	return true
}

// MinAllowedDate returns the date of the immediate predecessor of stage i,
// or nil for a stage without predecessor or whose predecessor is unset.
func MinAllowedDate(i Index, d Dates) *time.Time {
	s, ok := ByIndex(i)
	if !ok || !s.HasPredecessor() {
		return nil
	}
	pred, _ := ByIndex(s.Predecessor)
	t, ok := d.Get(pred)
	if !ok {
		return nil
	}
	return &t
}

// SetStageContext provides context for setting a single stage date.
type SetStageContext struct {
	Field string
	Date  time.Time
	Dates Dates // current dates, before applying Date
}

// CanSetStage evaluates whether a date may be entered on a stage tab.
// Rules:
// - Field must name a stage
// - Stage must be unlocked (all earlier stages set)
// - Date must not precede the predecessor's date
func CanSetStage(ctx SetStageContext) GuardResult {
	s, ok := Lookup(ctx.Field)
	if !ok {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown stage field %s", ctx.Field)}
	}
	if !IsStageUnlocked(s.Index, ctx.Dates) {
		pred, _ := ByIndex(s.Predecessor)
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("stage %s is locked until %s is set", s.Field, pred.Field),
		}
	}
	if minDate := MinAllowedDate(s.Index, ctx.Dates); minDate != nil && Day(ctx.Date).Before(Day(*minDate)) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("%s must not be earlier than %s", s.Field, FormatDate(*minDate)),
		}
	}
	return GuardResult{Allowed: true}
}

// TransitionContext provides context for an estado change caused by an edit.
type TransitionContext struct {
	From Estado
	To   Estado
}

// CanTransition evaluates whether an edit may move the estado from From to To.
// Rule: estados never move backward through the console.
func CanTransition(ctx TransitionContext) GuardResult {
	if ctx.From == "" || ctx.To.Rank() >= ctx.From.Rank() {
		return GuardResult{Allowed: true}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("estado cannot move backward from %s to %s", ctx.From, ctx.To),
	}
}

// Validate checks every stage in ascending order. A set stage needs its
// predecessor set and must not precede it; the required first stage must be
// set. Downstream violations are reported independently, one per field.
func Validate(d Dates) []errs.FieldError {
	var out []errs.FieldError
	for _, s := range schema {
		t, set := d.Get(s)
		if !set {
			if s.Required() {
				out = append(out, errs.FieldError{Field: s.Field, Message: "is required"})
			}
			continue
		}
		if !s.HasPredecessor() {
			continue
		}
		pred, _ := ByIndex(s.Predecessor)
		pt, predSet := d.Get(pred)
		if !predSet {
			out = append(out, errs.FieldError{
				Field:   s.Field,
				Message: fmt.Sprintf("requires %s to be set first", pred.Field),
			})
			continue
		}
		if Day(t).Before(Day(pt)) {
			out = append(out, errs.FieldError{
				Field:   s.Field,
				Message: fmt.Sprintf("must not be earlier than %s (%s)", pred.Field, FormatDate(pt)),
			})
		}
	}
	return out
}

// StageStatus is the tab view of one stage.
type StageStatus struct {
	Stage     Stage
	Unlocked  bool
	Completed bool
	Date      *time.Time
	MinDate   *time.Time
}

// Board returns the status of every stage, in order.
func Board(d Dates) []StageStatus {
	out := make([]StageStatus, len(schema))
	for i, s := range schema {
		st := StageStatus{
			Stage:    s,
			Unlocked: IsStageUnlocked(s.Index, d),
			MinDate:  MinAllowedDate(s.Index, d),
		}
		if t, ok := d.Get(s); ok {
			st.Completed = true
			st.Date = &t
		}
		out[i] = st
	}
	return out
}
