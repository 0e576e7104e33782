package ledger

import (
	"log/slog"
	"time"
)

// Observer is notified after each append and verification.
type Observer interface {
	ObserveAppend(length int, err error, started time.Time)
	ObserveVerify(length int, err error, started time.Time)
}

type nopObserver struct{}

func (nopObserver) ObserveAppend(int, error, time.Time) {}
func (nopObserver) ObserveVerify(int, error, time.Time) {}

type config struct {
	scheme      Scheme
	clock       func() time.Time
	genesisTime time.Time
	strict      bool
	logger      *slog.Logger
	observer    Observer
}

func defaultConfig() config {
	return config{
		scheme:   DefaultScheme,
		clock:    time.Now,
		logger:   slog.New(slog.DiscardHandler),
		observer: nopObserver{},
	}
}

// Option configures a Blockchain.
type Option func(config) config

// WithScheme sets the fingerprint scheme every block of the chain is sealed
// with. NewBlockchain rejects a scheme with an unsupported algorithm.
func WithScheme(s Scheme) Option {
	return func(c config) config {
		c.scheme = s.normalize()
		return c
	}
}

// WithClock sets the time source used for the genesis block.
func WithClock(clock func() time.Time) Option {
	return func(c config) config {
		c.clock = clock
		return c
	}
}

// WithGenesisTimestamp pins the genesis timestamp, making the genesis hash
// reproducible across runs.
func WithGenesisTimestamp(t time.Time) Option {
	return func(c config) config {
		c.genesisTime = t
		return c
	}
}

// WithStrictIndices rejects appended blocks whose index does not follow the
// latest one and makes Verify check index continuity and the genesis block.
func WithStrictIndices() Option {
	return func(c config) config {
		c.strict = true
		return c
	}
}

// WithLogger sets the logger receiving append, tamper and verification
// events. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c config) config {
		if logger != nil {
			c.logger = logger
		}
		return c
	}
}

// WithObserver sets the observer notified after every Append and Verify.
// A nil observer is ignored.
func WithObserver(o Observer) Option {
	return func(c config) config {
		if o != nil {
			c.observer = o
		}
		return c
	}
}
