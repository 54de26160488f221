package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/markscan/internal/charset"
	"github.com/sells-group/markscan/internal/extract"
	"github.com/sells-group/markscan/internal/fetcher"
	"github.com/sells-group/markscan/internal/model"
)

var (
	// ErrNoFiles is reported when the pattern matches nothing.
	ErrNoFiles = eris.New("no files matched the pattern")
	// ErrBusy is reported when Run is called while another run is active.
	ErrBusy = eris.New("run already in progress")
)

// Notifier receives the events of one run. Calls are made synchronously
// from the goroutine executing Run; implementations that hand events to
// another goroutine do their own synchronization.
type Notifier interface {
	Progress(msg string)
	// ResultsReady is only called when the run succeeds.
	ResultsReady(values, codes []string, encoding string)
	// Completed is always called exactly once, before Finished.
	Completed(result model.RunResult)
	Finished()
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) Progress(string)                        {}
func (NopNotifier) ResultsReady([]string, []string, string) {}
func (NopNotifier) Completed(model.RunResult)              {}
func (NopNotifier) Finished()                              {}

// Request describes one run.
type Request struct {
	Pattern  string
	Encoding string // overrides sniffing when set
}

// Runner executes extraction runs one at a time.
type Runner struct {
	sniffer *charset.Sniffer
	ex      *extract.Extractor
	log     *zap.Logger
	now     func() time.Time
	newID   func() string

	mu   sync.Mutex
	busy bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithSniffer replaces the default chardet-backed sniffer.
func WithSniffer(s *charset.Sniffer) Option {
	return func(r *Runner) { r.sniffer = s }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New returns a Runner scanning with the given markers.
func New(markers extract.Markers, opts ...Option) (*Runner, error) {
	ex, err := extract.New(markers)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: markers")
	}
	r := &Runner{
		sniffer: charset.NewSniffer(),
		ex:      ex,
		log:     zap.L(),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// runState is the accumulation of a single run. It is created fresh by
// every call to Run and never shared.
type runState struct {
	label string
	files []string
	col   *extract.Collector
}

// Run executes one extraction. Failures never escape as errors: they are
// reported through n.Progress and recorded on the returned Run. n.Completed
// and n.Finished are always called.
func (r *Runner) Run(ctx context.Context, req Request, n Notifier) *model.Run {
	if n == nil {
		n = NopNotifier{}
	}
	start := r.now()
	run := &model.Run{
		ID:        r.newID(),
		Pattern:   req.Pattern,
		CreatedAt: start.UTC(),
	}
	log := r.log.With(zap.String("run_id", run.ID), zap.String("pattern", req.Pattern))

	st := &runState{label: r.sniffer.Default}
	if st.label == "" {
		st.label = charset.DefaultLabel
	}

	err := ErrBusy
	if r.acquire() {
		func() {
			defer r.release()
			err = r.execute(ctx, req, n, st, log)
		}()
	}

	run.Files = len(st.files)
	run.Result = model.RunResult{
		Elapsed:  r.now().Sub(start),
		Encoding: st.label,
	}
	if st.col != nil {
		run.Result.UniqueCount = st.col.UniqueCount()
		run.Result.CodeCount = len(st.col.Codes())
	}

	if err != nil {
		run.Status = model.RunStatusFailed
		run.Error = err.Error()
		log.Error("pipeline: run failed", zap.Error(err))
		n.Progress("Error: " + run.Error)
	} else {
		run.Status = model.RunStatusComplete
		log.Info("pipeline: run complete",
			zap.Int("files", run.Files),
			zap.Int("unique", run.Result.UniqueCount),
			zap.Int("codes", run.Result.CodeCount),
			zap.Duration("elapsed", run.Result.Elapsed),
			zap.String("encoding", run.Result.Encoding),
		)
	}

	n.Completed(run.Result)
	n.Finished()
	return run
}

func (r *Runner) execute(ctx context.Context, req Request, n Notifier, st *runState, log *zap.Logger) error {
	files, err := fetcher.Glob(req.Pattern)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return ErrNoFiles
	}
	st.files = files

	if req.Encoding != "" {
		st.label = req.Encoding
		n.Progress("Using encoding: " + st.label)
	} else {
		dec, err := r.sniffer.SniffFile(files[0])
		if err != nil {
			return err
		}
		st.label = dec.Label
		log.Debug("pipeline: sniffed encoding",
			zap.String("file", files[0]),
			zap.String("label", dec.Label),
			zap.String("guess", dec.Guess),
			zap.Float64("confidence", dec.Confidence),
		)
		n.Progress("Detected encoding: " + st.label)
	}

	st.col = extract.NewCollector(r.ex)
	if err := r.scan(ctx, st, log); err != nil {
		return err
	}

	n.Progress(fmt.Sprintf("Files processed: %d", len(files)))
	n.ResultsReady(st.col.Values(), st.col.Codes(), st.label)
	return nil
}

// scan runs the line source and the collector as a producer/consumer
// pair. A panic while scanning stops the run with whatever was collected
// so far.
func (r *Runner) scan(ctx context.Context, st *runState, log *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	lines := make(chan string, 256)

	g.Go(func() error {
		defer close(lines)
		return fetcher.SendLines(gctx, st.files, st.label, log, lines)
	})

	g.Go(func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = eris.Errorf("unexpected failure after %d lines: %v", st.col.Lines(), p)
			}
		}()
		for line := range lines {
			st.col.Add(line)
		}
		return nil
	})

	err := g.Wait()
	if ctx.Err() != nil {
		return eris.Wrap(ctx.Err(), "pipeline: interrupted")
	}
	return err
}

func (r *Runner) acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return false
	}
	r.busy = true
	return true
}

func (r *Runner) release() {
	r.mu.Lock()
	r.busy = false
	r.mu.Unlock()
}
