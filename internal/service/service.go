// Package service is the validating facade over the enumeration engine. It
// applies resource limits, records metrics and tracing spans, and converts
// engine results into the JSON models shared by the HTTP server and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"math/bits"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/agbru/combicalc/internal/combin"
	"github.com/agbru/combicalc/pkg/models"
)

var (
	// ErrLimitExceeded is returned when a request exceeds one of the
	// configured limits on n, k or the number of workers.
	ErrLimitExceeded = errors.New("limit exceeded")
)

// Service defines the operations exposed to callers outside the engine.
// This abstraction enables dependency injection and easier testing/mocking.
type Service interface {
	// Count returns C(n, k) computed by the named counter. An empty name
	// selects the engine's own counter.
	Count(ctx context.Context, counter string, n, k int) (models.CountResponse, error)
	// Rank returns the lexicographic rank of c in the (n, k) space.
	Rank(ctx context.Context, n, k int, c combin.Combination) (models.RankResponse, error)
	// Unrank returns the combination at rank in the (n, k) space.
	Unrank(ctx context.Context, n, k int, rank *big.Int) (models.UnrankResponse, error)
	// Partition splits the (n, k) space across workers.
	Partition(ctx context.Context, n, k, workers int) (models.PartitionPlan, error)
	// Counters lists the registered counter names.
	Counters() []string
}

// Limits caps request sizes. A zero field means no limit.
type Limits struct {
	// MaxN is the largest universe size accepted.
	MaxN int
	// MaxK is the largest selection size accepted.
	MaxK int
	// MaxWorkers is the largest partition accepted.
	MaxWorkers int
	// MaxCost caps the estimated work of rank, unrank and partition
	// requests, in the units of EstimateCost.
	MaxCost float64
}

// DefaultLimits returns the limits applied by the HTTP server. MaxCost keeps
// a request to a few seconds, well inside the server's request timeout.
func DefaultLimits() Limits {
	return Limits{
		MaxN:       10_000_000,
		MaxK:       10_000,
		MaxWorkers: 4096,
		MaxCost:    5e9,
	}
}

// EstimateCost returns the approximate work of units rank or unrank calls in
// the (n, k) space. Each call evaluates O(k log n) binomial coefficients of
// min(k, n-k) factors on operands of O(min(k, n-k) log n) bits, so the
// estimate is k * min(k, n-k)^2 * log2(n) per call.
func EstimateCost(n, k, units int) float64 {
	if n <= 1 || k <= 0 || k > n {
		return 0
	}
	kEff := min(k, n-k) + 1
	return float64(units) * float64(k) * float64(kEff) * float64(kEff) * float64(bits.Len(uint(n)))
}

// EnumerationService implements Service on top of the combin package.
type EnumerationService struct {
	factory combin.CounterFactory
	limits  Limits
}

// Ensure EnumerationService implements Service interface.
var _ Service = (*EnumerationService)(nil)

// NewEnumerationService creates a new instance of EnumerationService.
//
// Parameters:
//   - factory: The factory to retrieve counters from.
//   - limits: The request size limits (zero value for none).
//
// Returns:
//   - *EnumerationService: The service.
func NewEnumerationService(factory combin.CounterFactory, limits Limits) *EnumerationService {
	return &EnumerationService{factory: factory, limits: limits}
}

// checkLimits validates n, k and workers against the configured limits.
// units is the number of rank or unrank calls the request performs; zero
// skips the cost check.
func (s *EnumerationService) checkLimits(n, k, workers, units int) error {
	if s.limits.MaxN > 0 && n > s.limits.MaxN {
		return fmt.Errorf("%w: n=%d exceeds the maximum of %d", ErrLimitExceeded, n, s.limits.MaxN)
	}
	if s.limits.MaxK > 0 && k > s.limits.MaxK {
		return fmt.Errorf("%w: k=%d exceeds the maximum of %d", ErrLimitExceeded, k, s.limits.MaxK)
	}
	if s.limits.MaxWorkers > 0 && workers > s.limits.MaxWorkers {
		return fmt.Errorf("%w: workers=%d exceeds the maximum of %d", ErrLimitExceeded, workers, s.limits.MaxWorkers)
	}
	if s.limits.MaxCost > 0 && units > 0 {
		if cost := EstimateCost(n, k, units); cost > s.limits.MaxCost {
			return fmt.Errorf("%w: estimated cost %.3g for n=%d, k=%d exceeds the maximum of %.3g",
				ErrLimitExceeded, cost, n, k, s.limits.MaxCost)
		}
	}
	return nil
}

// run wraps one operation with a tracing span, metrics and a debug log. The
// engine does not observe ctx, so fn runs on its own goroutine and run
// returns ctx.Err() as soon as ctx is done; the abandoned result is dropped.
func run[T any](ctx context.Context, op string, n, k int, fn func(ctx context.Context) (T, error)) (resp T, err error) {
	tracer := otel.Tracer("combicalc/service")
	ctx, span := tracer.Start(ctx, op)
	span.SetAttributes(attribute.Int("n", n), attribute.Int("k", k))
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		operationsTotal.WithLabelValues(op, status).Inc()
		operationDuration.WithLabelValues(op).Observe(duration)

		log.Debug().
			Str("op", op).
			Int("n", n).
			Int("k", k).
			Float64("duration", duration).
			Str("status", status).
			Msg("operation completed")
	}()

	if err := ctx.Err(); err != nil {
		return resp, err
	}

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		return resp, ctx.Err()
	}
}

// Count retrieves the requested counter and computes C(n, k).
func (s *EnumerationService) Count(ctx context.Context, counter string, n, k int) (models.CountResponse, error) {
	return run(ctx, "count", n, k, func(context.Context) (models.CountResponse, error) {
		if err := s.checkLimits(n, k, 0, 0); err != nil {
			return models.CountResponse{}, err
		}
		if counter == "" {
			counter = combin.MultiplicativeCounter{}.Name()
		}
		c, err := s.factory.Get(counter)
		if err != nil {
			return models.CountResponse{}, err
		}
		start := time.Now()
		total, err := c.Count(n, k)
		if err != nil {
			return models.CountResponse{}, err
		}
		approx, _ := combin.CountApprox(n, k)
		digits := total.String()
		return models.CountResponse{
			N:        n,
			K:        k,
			Count:    digits,
			Digits:   len(digits),
			Approx:   approx,
			Counter:  c.Name(),
			Duration: time.Since(start).String(),
		}, nil
	})
}

// Rank computes the rank of c.
func (s *EnumerationService) Rank(ctx context.Context, n, k int, c combin.Combination) (models.RankResponse, error) {
	return run(ctx, "rank", n, k, func(context.Context) (models.RankResponse, error) {
		if err := s.checkLimits(n, k, 0, 1); err != nil {
			return models.RankResponse{}, err
		}
		r, err := combin.Rank(n, k, c)
		if err != nil {
			return models.RankResponse{}, err
		}
		return models.RankResponse{N: n, K: k, Combination: indices(c), Rank: r.String()}, nil
	})
}

// Unrank decodes rank.
func (s *EnumerationService) Unrank(ctx context.Context, n, k int, rank *big.Int) (models.UnrankResponse, error) {
	return run(ctx, "unrank", n, k, func(context.Context) (models.UnrankResponse, error) {
		if err := s.checkLimits(n, k, 0, 1); err != nil {
			return models.UnrankResponse{}, err
		}
		c, err := combin.Unrank(n, k, rank)
		if err != nil {
			return models.UnrankResponse{}, err
		}
		return models.UnrankResponse{N: n, K: k, Rank: rank.String(), Combination: indices(c)}, nil
	})
}

// Partition splits the space and unranks the first combination of every
// non-empty range. The context is checked between workers.
func (s *EnumerationService) Partition(ctx context.Context, n, k, workers int) (models.PartitionPlan, error) {
	return run(ctx, "partition", n, k, func(ctx context.Context) (models.PartitionPlan, error) {
		if err := s.checkLimits(n, k, workers, workers); err != nil {
			return models.PartitionPlan{}, err
		}
		p, err := combin.NewPartition(n, k, workers)
		if err != nil {
			return models.PartitionPlan{}, err
		}
		return BuildPlan(ctx, p)
	})
}

// Counters lists the registered counter names.
func (s *EnumerationService) Counters() []string {
	return s.factory.List()
}

// BuildPlan converts a partition into its JSON plan, unranking the first
// combination of every non-empty range.
//
// Parameters:
//   - ctx: Checked between workers.
//   - p: The partition to describe.
//
// Returns:
//   - models.PartitionPlan: The plan, without a generation time.
//   - error: The context error if ctx is done.
func BuildPlan(ctx context.Context, p *combin.Partition) (models.PartitionPlan, error) {
	plan := models.PartitionPlan{
		N:            p.Space.N,
		K:            p.Space.K,
		Total:        p.Total.String(),
		Workers:      p.Workers(),
		MaxRangeSize: p.MaxRangeSize().String(),
		Ranges:       make([]models.RangePlan, 0, p.Workers()),
	}
	for w, r := range p.Ranges {
		if err := ctx.Err(); err != nil {
			return models.PartitionPlan{}, err
		}
		first, err := p.First(w)
		if err != nil {
			return models.PartitionPlan{}, err
		}
		plan.Ranges = append(plan.Ranges, models.RangePlan{
			Worker: r.Worker,
			Start:  r.Start.String(),
			End:    r.End.String(),
			Size:   r.Size().String(),
			First:  indices(first),
		})
	}
	return plan, nil
}

// indices converts a combination to a plain slice, keeping the empty
// combination as an empty (not null) JSON array. A nil combination stays nil.
func indices(c combin.Combination) []int {
	if c == nil {
		return nil
	}
	out := make([]int, len(c))
	copy(out, c)
	return out
}
