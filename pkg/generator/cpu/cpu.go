package cpu

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Amr-9/trongen/pkg/generator"
)

// NewGeneratorFunc builds a generator around the given key source. The
// runner wraps each worker's source to count attempts.
type NewGeneratorFunc func(keys generator.KeyPairSource) generator.Generator

// Runner generates a batch of addresses using CPU-based goroutines.
// Every address comes from its own Generate call with its own attempt
// counter; workers share nothing but the statistics.
type Runner struct {
	generated uint64       // Atomic counter for addresses produced
	attempts  uint64       // Atomic counter for key pairs tried
	failures  uint64       // Atomic counter for exhausted Generate calls
	startTime atomic.Int64 // When the batch started, unix nanoseconds
	workers   int          // Number of concurrent workers

	newKeys      func() generator.KeyPairSource
	newGenerator NewGeneratorFunc
}

// NewRunner creates a new CPU-based batch runner.
// If workers is 0, it defaults to the number of CPU cores.
func NewRunner(workers int, newKeys func() generator.KeyPairSource, newGenerator NewGeneratorFunc) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{
		workers:      workers,
		newKeys:      newKeys,
		newGenerator: newGenerator,
	}
}

// Name returns the implementation name.
func (r *Runner) Name() string {
	return "CPU"
}

// Stats returns the current performance statistics.
// This method is safe to call concurrently from any goroutine.
func (r *Runner) Stats() generator.Stats {
	generated := atomic.LoadUint64(&r.generated)

	var elapsed, rate float64
	if start := r.startTime.Load(); start != 0 {
		elapsed = time.Since(time.Unix(0, start)).Seconds()
	}
	if elapsed > 0 {
		rate = float64(generated) / elapsed
	}

	return generator.Stats{
		Generated:   generated,
		Attempts:    atomic.LoadUint64(&r.attempts),
		Failures:    atomic.LoadUint64(&r.failures),
		Rate:        rate,
		ElapsedSecs: elapsed,
	}
}

// Run generates count addresses. Results and errors are delivered on the
// returned channels, both closed once all work is done or ctx is cancelled.
// A Generate call already in progress is never interrupted; cancellation
// takes effect between calls. A count below one yields no work and both
// channels are returned already closed.
func (r *Runner) Run(ctx context.Context, count int) (<-chan generator.Result, <-chan error) {
	if count < 0 {
		count = 0
	}
	results := make(chan generator.Result, count)
	errs := make(chan error, count)
	atomic.StoreUint64(&r.generated, 0)
	atomic.StoreUint64(&r.attempts, 0)
	atomic.StoreUint64(&r.failures, 0)
	r.startTime.Store(time.Now().UnixNano())

	if count == 0 {
		close(results)
		close(errs)
		return results, errs
	}

	jobs := make(chan struct{})
	go func() {
		defer close(jobs)
		for i := 0; i < count; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- struct{}{}:
			}
		}
	}()

	workers := r.workers
	if workers > count {
		workers = count
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, jobs, results, errs)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
		close(errs)
	}()

	return results, errs
}

func (r *Runner) worker(ctx context.Context, jobs <-chan struct{}, results chan<- generator.Result, errs chan<- error) {
	gen := r.newGenerator(&countingSource{
		KeyPairSource: r.newKeys(),
		attempts:      &r.attempts,
	})

	for range jobs {
		if ctx.Err() != nil {
			return
		}

		result, err := gen.Generate()
		if err != nil {
			atomic.AddUint64(&r.failures, 1)
			errs <- err
			continue
		}

		atomic.AddUint64(&r.generated, 1)
		results <- result
	}
}

// countingSource counts one attempt per key pair handed out.
type countingSource struct {
	generator.KeyPairSource
	attempts *uint64
}

func (s *countingSource) Generate() (generator.KeyPair, error) {
	atomic.AddUint64(s.attempts, 1)
	return s.KeyPairSource.Generate()
}
