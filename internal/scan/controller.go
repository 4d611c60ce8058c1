// Package scan owns the scan request lifecycle.
package scan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yildizm/sensescan/internal/client"
	"github.com/yildizm/sensescan/internal/logger"
	"github.com/yildizm/sensescan/internal/report"
	"github.com/yildizm/sensescan/internal/selector"
)

// FailureNotice is the single user-visible message for every failed scan
const FailureNotice = "Scan failed! Is the detection service running?"

// Scanner performs the outbound request. *client.Client implements it.
type Scanner interface {
	ScanFile(ctx context.Context, file *selector.PendingFile, requestID string) (*report.Report, error)
}

var _ Scanner = (*client.Client)(nil)

// Notifier shows the failure notice to the user
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(message string)

// Notify calls f
func (f NotifierFunc) Notify(message string) {
	f(message)
}

// Outcome is the result of one Request
type Outcome struct {
	ScanID  string
	Report  *report.Report
	Err     error
	Elapsed time.Duration
}

// Request performs the outbound call. It is safe to run off the UI thread
// because it touches no controller state; its Outcome must be handed back
// through Resolve on the UI thread.
type Request func() Outcome

// Option configures a Controller
type Option func(*Controller)

// WithNotifier sets the failure notifier
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// WithIDGenerator replaces the scan ID generator
func WithIDGenerator(gen func() string) Option {
	return func(c *Controller) {
		c.newID = gen
	}
}

// Controller drives Idle -> Submitting -> Succeeded|Failed. It is the only
// writer of State and is meant to be used from a single goroutine; only
// the Request closures it hands out run elsewhere.
type Controller struct {
	scanner  Scanner
	selector *selector.Selector
	notifier Notifier
	log      *logger.Logger
	newID    func() string

	state State
}

// NewController creates a controller in the Idle state
func NewController(scanner Scanner, sel *selector.Selector, opts ...Option) *Controller {
	c := &Controller{
		scanner:  scanner,
		selector: sel,
		notifier: NotifierFunc(func(string) {}),
		log:      logger.Nop(),
		newID:    uuid.NewString,
		state:    idleState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state
func (c *Controller) State() State {
	return c.state
}

// Selector returns the file selector the controller reads from
func (c *Controller) Selector() *selector.Selector {
	return c.selector
}

// CanSubmit is true when a file is selected and no request is in flight
func (c *Controller) CanSubmit() bool {
	return c.selector.HasSelection() && c.state.kind != KindSubmitting
}

// Submit moves to Submitting and returns the request to execute. When
// CanSubmit is false it does nothing and returns nil.
func (c *Controller) Submit(ctx context.Context) Request {
	if !c.CanSubmit() {
		c.log.Debug("submit ignored in state %s", c.state)
		return nil
	}

	file := c.selector.Selected()
	id := c.newID()
	c.state = submittingState(id, file.Name())
	c.log.InfoWithFields("scan submitted", []logger.Field{logger.ScanID(id), logger.File(file.Name())})

	scanner := c.scanner
	log := c.log
	return func() Outcome {
		start := time.Now()
		r, err := scanner.ScanFile(ctx, file, id)
		elapsed := time.Since(start)
		if err != nil {
			log.DebugWithFields("scan request failed", []logger.Field{
				logger.ScanID(id),
				logger.F("kind", client.ErrorTypeOf(err)),
				logger.Duration(elapsed),
			})
		}
		return Outcome{ScanID: id, Report: r, Err: err, Elapsed: elapsed}
	}
}

// Resolve applies the outcome of the in-flight request. Outcomes for any
// other request are discarded; the return value reports whether the state
// changed.
func (c *Controller) Resolve(o Outcome) bool {
	if c.state.kind != KindSubmitting || o.ScanID != c.state.scanID {
		c.log.DebugWithFields("discarding stale outcome", []logger.Field{logger.ScanID(o.ScanID)})
		return false
	}

	source := c.state.source
	if o.Err == nil && o.Report == nil {
		o.Err = errEmptyReport
	}

	if o.Err != nil {
		c.state = failedState(o.ScanID, source, o.Err.Error())
		c.log.WarnWithFields("scan failed", []logger.Field{
			logger.ScanID(o.ScanID),
			logger.File(source),
			logger.Error(o.Err),
		})
		c.notifier.Notify(FailureNotice)
		return true
	}

	c.state = succeededState(o.ScanID, source, o.Report)
	c.log.InfoWithFields("scan succeeded", []logger.Field{
		logger.ScanID(o.ScanID),
		logger.File(source),
		logger.F("categories", len(o.Report.Counts)),
		logger.F("detectors", len(o.Report.Inspection)),
		logger.Duration(o.Elapsed),
	})
	return true
}

// Run submits, waits for the response and resolves it on the calling
// goroutine. ok is false when Submit was a no-op.
func (c *Controller) Run(ctx context.Context) (state State, ok bool) {
	req := c.Submit(ctx)
	if req == nil {
		return c.state, false
	}
	c.Resolve(req())
	return c.state, true
}

// View derives the renderer input from the current state. Only a
// Succeeded state carries data; every other state yields an empty view.
func (c *Controller) View() report.View {
	return report.Adapt(c.state.report)
}
