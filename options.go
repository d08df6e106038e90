package primego

const (
	// DefaultSieveSizeKiB is the default segment buffer size. 32 KiB
	// keeps the hot buffer within a typical L1 data cache.
	DefaultSieveSizeKiB = 32

	// DefaultPreSieveLimit pre-sieves multiples of primes <= 19, which
	// needs a pattern of about 316 KiB.
	DefaultPreSieveLimit = 19
)

type options struct {
	sieveSizeKiB  int
	preSieveLimit int
	logger        *Logger
	metrics       MetricsCollector
}

// Option configures a sieve run.
type Option func(*options)

func applyOptions(optFns []Option) *options {
	o := &options{
		sieveSizeKiB:  DefaultSieveSizeKiB,
		preSieveLimit: DefaultPreSieveLimit,
		logger:        NoopLogger(),
		metrics:       NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(o)
	}
	return o
}

// WithSieveSize sets the segment buffer size in KiB. The value is floored
// to a power of two and must be in [1, 4096]. Larger buffers mean fewer,
// bigger segments; the sieved result is identical for every valid size.
func WithSieveSize(kib int) Option {
	return func(o *options) {
		o.sieveSizeKiB = kib
	}
}

// WithPreSieveLimit sets the largest pre-sieved prime, in [13, 23].
// Higher limits speed up large ranges at the cost of a bigger precomputed
// pattern (about 7 MiB at 23).
func WithPreSieveLimit(limit int) Option {
	return func(o *options) {
		o.preSieveLimit = limit
	}
}

// WithLogger sets the structured logger for operation tracing.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics sets the metrics collector for monitoring.
func WithMetrics(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}
