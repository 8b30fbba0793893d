package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/combicalc/internal/cli"
	"github.com/agbru/combicalc/internal/combin"
	"github.com/agbru/combicalc/internal/logging"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of dropped updates when the
// display is slow to consume them.
const ProgressBufferMultiplier = 5

// Default sweep intervals, in emitted combinations.
const (
	DefaultCancelCheckInterval = 4096
	DefaultProgressInterval    = 1 << 16
)

// SweepOptions tunes ExecuteSweep.
type SweepOptions struct {
	// CancelCheckInterval is how many combinations a worker emits between
	// context checks. Zero selects DefaultCancelCheckInterval.
	CancelCheckInterval uint64
	// ProgressInterval is how many combinations a worker emits between
	// progress notifications. Zero selects DefaultProgressInterval.
	ProgressInterval uint64
	// Verbose lists every emitted combination on the output, prefixed with
	// its worker, instead of showing a progress bar.
	Verbose bool
	// Logger receives sweep lifecycle logs. A *logging.ZerologAdapter also
	// gets a throttled progress log. Nil disables logging.
	Logger logging.Logger
	// Observers are notified of progress in addition to the built-in ones.
	Observers []combin.ProgressObserver
}

func (o SweepOptions) withDefaults() SweepOptions {
	if o.CancelCheckInterval == 0 {
		o.CancelCheckInterval = DefaultCancelCheckInterval
	}
	if o.ProgressInterval == 0 {
		o.ProgressInterval = DefaultProgressInterval
	}
	if o.Logger == nil {
		o.Logger = logging.NewNopLogger()
	}
	return o
}

// WorkerReport is what one sweep worker observed.
type WorkerReport struct {
	// Worker is the worker index.
	Worker int
	// Range is the rank interval assigned to the worker.
	Range combin.Range
	// First and Last are the first and last emitted combinations, nil when
	// the worker emitted nothing.
	First, Last combin.Combination
	// Emitted is the number of combinations the worker produced.
	Emitted uint64
	// Duration is the time the worker ran.
	Duration time.Duration
	// Err is set when the worker stopped early.
	Err error
}

// SweepReport is the outcome of ExecuteSweep.
type SweepReport struct {
	Space    combin.Space
	Total    *big.Int
	Workers  []WorkerReport
	Duration time.Duration
	// Err is the first error that stopped a worker.
	Err error
}

// ExecuteSweep enumerates every combination of the partitioned space, one
// goroutine per worker, each draining the generator of its own range.
//
// Workers verify that their output strictly increases and check ctx every
// CancelCheckInterval combinations. The first failing worker cancels the
// others. Progress flows through a combin.ProgressSubject to the terminal
// display on out, the Prometheus worker gauge and, with a zerolog logger,
// a throttled debug log.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - p: The partition to sweep.
//   - opts: Sweep tuning.
//   - out: The io.Writer for progress and verbose listings.
//
// Returns:
//   - SweepReport: Per-worker observations, to be checked with AnalyzeSweep.
func ExecuteSweep(ctx context.Context, p *combin.Partition, opts SweepOptions, out io.Writer) SweepReport {
	opts = opts.withDefaults()
	space := p.Space

	ctx, span := otel.Tracer("combicalc/orchestration").Start(ctx, "sweep")
	defer span.End()
	span.SetAttributes(
		attribute.Int("n", space.N),
		attribute.Int("k", space.K),
		attribute.Int("workers", p.Workers()),
		attribute.String("total", p.Total.String()),
	)

	subject := combin.NewProgressSubject()
	metricsObserver := combin.NewMetricsObserver()
	subject.Register(metricsObserver)
	defer metricsObserver.ResetMetrics()
	if z, ok := opts.Logger.(*logging.ZerologAdapter); ok {
		subject.Register(combin.NewLoggingObserver(z.Zerolog(), 0.1))
	}
	for _, o := range opts.Observers {
		subject.Register(o)
	}

	var displayWg sync.WaitGroup
	var progressChan chan combin.ProgressUpdate
	if !opts.Verbose {
		progressChan = make(chan combin.ProgressUpdate, p.Workers()*ProgressBufferMultiplier)
		subject.Register(combin.NewChannelObserver(progressChan))
		displayWg.Add(1)
		go cli.DisplayProgress(&displayWg, progressChan, p.Workers(), out)
	}

	var outMu sync.Mutex
	emit := func(worker int, c combin.Combination) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(out, "w%d %s\n", worker, c)
	}

	opts.Logger.Info("sweep started",
		logging.Stringer("space", space),
		logging.Int("workers", p.Workers()),
		logging.BigInt("total", p.Total))

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	reports := make([]WorkerReport, p.Workers())
	for w := range p.Ranges {
		g.Go(func() error {
			reports[w] = sweepRange(gctx, p, w, opts, subject.AsProgressReporter(w), emit)
			return reports[w].Err
		})
	}
	err := g.Wait()
	if progressChan != nil {
		close(progressChan)
		displayWg.Wait()
	}

	report := SweepReport{Space: space, Total: p.Total, Workers: reports, Duration: time.Since(start), Err: err}
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		opts.Logger.Error("sweep stopped", err, logging.Duration("duration", report.Duration))
	} else {
		opts.Logger.Info("sweep completed", logging.Duration("duration", report.Duration))
	}
	sweepDuration.WithLabelValues(status).Observe(report.Duration.Seconds())
	return report
}

// sweepRange drains the generator of worker w.
func sweepRange(ctx context.Context, p *combin.Partition, w int, opts SweepOptions, report combin.ProgressReporter, emit func(int, combin.Combination)) WorkerReport {
	r := p.Ranges[w]
	res := WorkerReport{Worker: w, Range: r}
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	g, err := p.Generator(w)
	if err != nil {
		res.Err = err
		return res
	}
	size, _ := new(big.Float).SetInt(r.Size()).Float64()

	var prev combin.Combination
	var flushed uint64
	for c, ok := g.Next(); ok; c, ok = g.Next() {
		if prev == nil {
			res.First = c
		} else if prev.Compare(c) >= 0 {
			res.Err = fmt.Errorf("worker %d: %s emitted after %s", w, c, prev)
			break
		}
		prev = c
		if opts.Verbose {
			emit(w, c)
		}

		n := g.Emitted()
		if n%opts.CancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				res.Err = err
				break
			}
		}
		if n%opts.ProgressInterval == 0 {
			report(float64(n) / size)
			sweepCombinationsTotal.Add(float64(n - flushed))
			flushed = n
		}
	}
	res.Last = prev
	res.Emitted = g.Emitted()
	sweepCombinationsTotal.Add(float64(res.Emitted - flushed))
	if res.Err == nil {
		report(1.0)
	}
	return res
}
