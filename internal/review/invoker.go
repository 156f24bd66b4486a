package review

import (
	"context"
	"time"

	"github.com/thomas-vilte/matereview/internal/ai"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/models"
)

// AttemptErrorKind tells a failed model call apart from an unusable answer.
type AttemptErrorKind string

const (
	AttemptTransport AttemptErrorKind = "transport"
	AttemptParse     AttemptErrorKind = "parse"
)

// Attempt records the outcome of one send-and-parse round.
type Attempt struct {
	Number     int
	Result     Result
	Kind       AttemptErrorKind
	Err        error
	Usage      *models.TokenUsage
	DurationMs int64
}

func (a Attempt) OK() bool {
	return a.Err == nil && a.Result.Valid()
}

// InvocationResult is the fold of every attempt made for one review.
type InvocationResult struct {
	Attempts []Attempt
	Usage    *models.TokenUsage
	// Result is the first valid parse, if any.
	Result *Result
}

// Found reports whether any attempt produced a valid response.
func (r InvocationResult) Found() bool {
	return r.Result != nil
}

// Invoker sends a review request to a chat model and retries, within a fixed
// budget, on transport errors and unusable responses.
type Invoker struct {
	starter     ai.ChatStarter
	maxAttempts int
	timeout     time.Duration
}

type InvokerOption func(*Invoker)

func WithMaxAttempts(n int) InvokerOption {
	return func(i *Invoker) {
		i.maxAttempts = n
	}
}

// WithAttemptTimeout bounds each chat turn. Zero disables the bound.
func WithAttemptTimeout(d time.Duration) InvokerOption {
	return func(i *Invoker) {
		i.timeout = d
	}
}

func NewInvoker(starter ai.ChatStarter, opts ...InvokerOption) *Invoker {
	inv := &Invoker{starter: starter, maxAttempts: 1}
	for _, opt := range opts {
		opt(inv)
	}
	if inv.maxAttempts < 1 {
		inv.maxAttempts = 1
	}
	return inv
}

// Invoke sends the full payload up to maxAttempts times in one chat session,
// stopping at the first valid response. The session is opened by the first
// attempt that needs it, so a failed start costs one attempt and is retried.
// It never returns an error: exhausting the budget yields an InvocationResult
// without a Result.
func (inv *Invoker) Invoke(ctx context.Context, req models.ReviewRequest) InvocationResult {
	log := logger.FromContext(ctx)
	var out InvocationResult
	var session ai.ChatSession

	for n := 1; n <= inv.maxAttempts; n++ {
		var attempt Attempt
		if session == nil {
			s, err := inv.starter.StartChat(ctx, req)
			if err != nil {
				attempt = Attempt{Number: n, Kind: AttemptTransport, Err: err}
			} else {
				session = s
			}
		}
		if session != nil {
			attempt = inv.attempt(ctx, session, req.Message, n)
		}

		out.Attempts = append(out.Attempts, attempt)
		out.Usage = out.Usage.Add(attempt.Usage)

		if attempt.OK() {
			result := attempt.Result
			out.Result = &result
			log.Info("model response accepted",
				"attempt", n,
				"result", result.Kind.String(),
				"findings_count", len(result.Findings),
				"duration_ms", attempt.DurationMs)
			break
		}

		log.Warn("model attempt failed",
			"attempt", n,
			"max_attempts", inv.maxAttempts,
			"kind", string(attempt.Kind),
			"error", attempt.Err,
			"session_started", session != nil,
			"duration_ms", attempt.DurationMs)

		if ctx.Err() != nil {
			break
		}
	}

	return out
}

func (inv *Invoker) attempt(ctx context.Context, session ai.ChatSession, message string, n int) Attempt {
	start := time.Now()

	callCtx := ctx
	if inv.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	raw, usage, err := session.SendMessage(callCtx, message)
	a := Attempt{Number: n, Usage: usage, DurationMs: time.Since(start).Milliseconds()}
	if err != nil {
		a.Kind = AttemptTransport
		a.Err = err
		return a
	}

	logger.FromContext(ctx).Debug("model response received",
		"attempt", n,
		"response_length", len(raw))

	a.Result = ParseResult(raw)
	if !a.Result.Valid() {
		a.Kind = AttemptParse
		a.Err = a.Result.Err
	}
	return a
}
