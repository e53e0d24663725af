package app

import (
	"context"
	"io"
	"sync"

	"github.com/alitto/pond/v2"
	"go.uber.org/multierr"

	"github.com/mata-elang-stable/flowlog-report/internal/flowlog"
	"github.com/mata-elang-stable/flowlog-report/internal/logger"
	"github.com/mata-elang-stable/flowlog-report/internal/lookup"
	"github.com/mata-elang-stable/flowlog-report/internal/protocol"
	"github.com/mata-elang-stable/flowlog-report/internal/reporter"
	"github.com/mata-elang-stable/flowlog-report/internal/schema"
	"github.com/mata-elang-stable/flowlog-report/internal/types"
)

var log = logger.GetLogger()

// Publisher delivers a run summary to an external system.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, summary *schema.Summary) error
}

// Files names the three files of a run.
type Files struct {
	FlowLog string
	Lookup  string
	Output  string
}

type App struct {
	ctx           context.Context
	files         Files
	protocols     *protocol.Table
	publishers    []Publisher
	maxConcurrent int
	summaryOut    io.Writer
}

type Option func(*App)

// WithProtocols replaces the built-in protocol number table.
func WithProtocols(protocols *protocol.Table) Option {
	return func(a *App) {
		a.protocols = protocols
	}
}

func WithPublishers(publishers ...Publisher) Option {
	return func(a *App) {
		a.publishers = append(a.publishers, publishers...)
	}
}

// WithSummary renders the count tables to w once the report is written.
func WithSummary(w io.Writer) Option {
	return func(a *App) {
		a.summaryOut = w
	}
}

func WithMaxConcurrent(n int) Option {
	return func(a *App) {
		a.maxConcurrent = n
	}
}

func NewApp(ctx context.Context, files Files, opts ...Option) *App {
	a := &App{
		ctx:           ctx,
		files:         files,
		protocols:     protocol.Default(),
		maxConcurrent: 1,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Run loads the lookup table, aggregates the flow log and writes the report.
// Each stage completes before the next one starts.
func (a *App) Run() error {
	table, err := lookup.Load(a.files.Lookup, lookup.WithSkipHook(skipLogger(a.files.Lookup)))
	if err != nil {
		return err
	}
	log.WithFields(logger.Fields{
		"path": a.files.Lookup,
		"keys": table.Len(),
	}).Infoln("Loaded lookup table.")

	result, err := flowlog.Aggregate(
		a.files.FlowLog,
		table,
		flowlog.WithProtocols(a.protocols),
		flowlog.WithSkipHook(skipLogger(a.files.FlowLog)),
	)
	if err != nil {
		return err
	}
	log.WithFields(logger.Fields{
		"path":    a.files.FlowLog,
		"records": result.Records(),
		"tags":    result.Tags.Len(),
		"pairs":   result.Ports.Len(),
	}).Infoln("Aggregated flow log.")

	if err := reporter.WriteFile(a.files.Output, result.Tags, result.Ports); err != nil {
		return err
	}
	log.WithField("path", a.files.Output).Infoln("Report written.")

	if a.summaryOut != nil {
		reporter.PrintSummary(a.summaryOut, result.Tags, result.Ports)
	}

	return a.publish(schema.NewSummary(a.files.FlowLog, a.files.Lookup, result.Tags, result.Ports))
}

func (a *App) publish(summary *schema.Summary) error {
	if len(a.publishers) == 0 {
		return nil
	}

	var (
		mu   sync.Mutex
		errs error
	)

	concurrencyNumber := max(min(a.maxConcurrent, len(a.publishers)), 1)
	pool := pond.NewPool(concurrencyNumber)

	for _, publisher := range a.publishers {
		publisher := publisher
		pool.Submit(func() {
			err := publisher.Publish(a.ctx, summary)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = multierr.Append(errs, err)
				return
			}
			log.WithField("publisher", publisher.Name()).Infoln("Summary published.")
		})
	}

	pool.StopAndWait()

	return errs
}

func skipLogger(path string) func(int, types.SkipReason) {
	return func(lineNumber int, reason types.SkipReason) {
		log.WithFields(logger.Fields{
			"path":   path,
			"line":   lineNumber,
			"reason": reason.String(),
		}).Debugln("Skipped line.")
	}
}
