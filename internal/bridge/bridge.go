// Package bridge is the single entry point transports use to reach the
// provider client. Every call runs on one worker, one at a time, and fails
// with a (code, message, details) triple.
package bridge

import (
	"context"
	"fmt"
	"sort"
	"time"

	apperrors "github.com/vytor/ankibridge/internal/errors"
	"github.com/vytor/ankibridge/internal/logger"
	"github.com/vytor/ankibridge/internal/metrics"
	"github.com/vytor/ankibridge/internal/models"
	"github.com/vytor/ankibridge/internal/worker"
)

// Method names.
const (
	MethodGetStatus         = "getStatus"
	MethodGetDecks          = "getDecks"
	MethodGetTodayNewCards  = "getTodayNewCards"
	MethodAppendToNoteField = "appendToNoteField"
)

// DefaultNewCardLimit applies when getTodayNewCards is called without a limit.
const DefaultNewCardLimit = 20

const codeOK = "OK"

// Client is the provider client the bridge drives.
type Client interface {
	Status(ctx context.Context) models.Status
	Decks(ctx context.Context) ([]models.DeckSummary, error)
	TodayNewCards(ctx context.Context, deckID int64, limit int) ([]models.CardView, error)
	AppendToNoteField(ctx context.Context, req models.AppendRequest) (models.AppendResult, error)
}

// Failure is the serialised form of a failed call.
type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// FailureOf converts err to a Failure. Errors without a code become UNKNOWN.
func FailureOf(err error) Failure {
	appErr := apperrors.From(err)
	return Failure{Code: appErr.Code, Message: appErr.Message, Details: appErr.Detail}
}

type call func(ctx context.Context) (any, error)

// handler validates args and returns the work to run on the worker.
type handler func(args Args) (call, error)

// Bridge dispatches named calls onto a single-worker pool.
type Bridge struct {
	client       Client
	pool         *worker.Pool
	defaultLimit int
	metrics      *metrics.Metrics
	handlers     map[string]handler
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithDefaultLimit sets the limit used when getTodayNewCards names none.
func WithDefaultLimit(n int) Option {
	return func(b *Bridge) {
		if n > 0 {
			b.defaultLimit = n
		}
	}
}

// WithMetrics records per-call metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bridge) {
		b.metrics = m
	}
}

// New creates a Bridge. The pool must be started by the caller and should
// have exactly one worker.
func New(client Client, pool *worker.Pool, opts ...Option) *Bridge {
	b := &Bridge{
		client:       client,
		pool:         pool,
		defaultLimit: DefaultNewCardLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.handlers = map[string]handler{
		MethodGetStatus:         b.getStatus,
		MethodGetDecks:          b.getDecks,
		MethodGetTodayNewCards:  b.getTodayNewCards,
		MethodAppendToNoteField: b.appendToNoteField,
	}
	return b
}

// Methods lists the callable method names.
func (b *Bridge) Methods() []string {
	names := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call runs method with args and waits for its result. Failures are always
// *errors.AppError.
func (b *Bridge) Call(ctx context.Context, method string, args Args) (any, error) {
	start := time.Now()
	log := logger.FromContext(ctx).WithPrefix("bridge").WithField("method", method)

	h, ok := b.handlers[method]
	if !ok {
		err := apperrors.NewBadRequestError(fmt.Sprintf("unknown method: %s", method))
		b.metrics.ObserveCall("unknown", err.Code, time.Since(start))
		log.Warn("rejected call: %v", err)
		return nil, err
	}

	res, err := b.dispatch(ctx, method, h, args)
	if err != nil {
		appErr := apperrors.From(err)
		b.metrics.ObserveCall(method, appErr.Code, time.Since(start))
		log.Warn("call failed in %v: %s: %s", time.Since(start), appErr.Code, appErr.Message)
		return nil, appErr
	}
	b.metrics.ObserveCall(method, codeOK, time.Since(start))
	log.Debug("call completed in %v", time.Since(start))
	return res, nil
}

func (b *Bridge) dispatch(ctx context.Context, method string, h handler, args Args) (any, error) {
	fn, err := h(args)
	if err != nil {
		return nil, err
	}

	job := &callJob{name: method, ctx: ctx, fn: fn, done: make(chan result, 1)}
	if err := b.pool.Submit(ctx, job); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	select {
	case r := <-job.done:
		return r.value, r.err
	case <-ctx.Done():
		return nil, apperrors.NewInternalError(ctx.Err())
	case <-b.pool.Done():
		return nil, apperrors.NewInternalError(worker.ErrStopped)
	}
}

func (b *Bridge) getStatus(Args) (call, error) {
	return func(ctx context.Context) (any, error) {
		return b.client.Status(ctx), nil
	}, nil
}

func (b *Bridge) getDecks(Args) (call, error) {
	return func(ctx context.Context) (any, error) {
		return b.client.Decks(ctx)
	}, nil
}

func (b *Bridge) getTodayNewCards(args Args) (call, error) {
	deckID, _, err := args.Int64("deckId")
	if err != nil {
		return nil, err
	}
	limit := int64(b.defaultLimit)
	if v, ok, err := args.Int64("limit"); err != nil {
		return nil, err
	} else if ok {
		limit = v
	}
	return func(ctx context.Context) (any, error) {
		return b.client.TodayNewCards(ctx, deckID, int(limit))
	}, nil
}

func (b *Bridge) appendToNoteField(args Args) (call, error) {
	var req models.AppendRequest
	var err error
	if req.NoteID, _, err = args.Int64("noteId"); err != nil {
		return nil, err
	}
	if req.ModelID, _, err = args.Int64("modelId"); err != nil {
		return nil, err
	}
	if req.TargetFieldKey, err = args.String("targetFieldKey"); err != nil {
		return nil, err
	}
	if req.GeneratedText, err = args.String("generatedText"); err != nil {
		return nil, err
	}
	if req.Marker, err = args.String("marker"); err != nil {
		return nil, err
	}
	return func(ctx context.Context) (any, error) {
		return b.client.AppendToNoteField(ctx, req)
	}, nil
}

type result struct {
	value any
	err   error
}

// callJob carries the caller's context onto the worker so cancellation and
// request-scoped logging follow the call.
type callJob struct {
	name string
	ctx  context.Context
	fn   call
	done chan result
}

func (j *callJob) Name() string { return j.name }

func (j *callJob) Run(context.Context) error {
	if err := j.ctx.Err(); err != nil {
		j.done <- result{err: apperrors.NewInternalError(err)}
		return err
	}
	v, err := j.fn(j.ctx)
	j.done <- result{value: v, err: err}
	return err
}
