package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/luca-patrignani/hashledger/canon"
	"github.com/luca-patrignani/hashledger/ledger"
	"github.com/luca-patrignani/hashledger/metrics"
)

type config struct {
	Algorithm    string `long:"algorithm" env:"HASHLEDGER_ALGORITHM" description:"fingerprint digest (sha256, sha3-256, blake2b-256)" default:"sha256"`
	Encoding     string `long:"encoding" env:"HASHLEDGER_ENCODING" description:"payload encoding (json, cbor)" default:"json"`
	Amounts      []int  `long:"amount" env:"HASHLEDGER_AMOUNTS" env-delim:"," description:"amount recorded by each appended block" default:"4" default:"10"`
	TamperAt     int    `long:"tamper-at" env:"HASHLEDGER_TAMPER_AT" description:"chain position rewritten after the first check" default:"1"`
	TamperAmount int    `long:"tamper-amount" env:"HASHLEDGER_TAMPER_AMOUNT" description:"amount written into the tampered block" default:"400"`
	NoReseal     bool   `long:"no-reseal" env:"HASHLEDGER_NO_RESEAL" description:"leave the tampered block's hash stale instead of resealing it"`
	Strict       bool   `long:"strict" env:"HASHLEDGER_STRICT" description:"require sequential indices and check the genesis block"`
	Metrics      bool   `long:"metrics" env:"HASHLEDGER_METRICS" description:"print ledger metrics after the run"`
	Verbose      bool   `short:"v" long:"verbose" description:"log every ledger operation"`
}

// report holds the outcome of one demo run.
type report struct {
	Before error
	After  error
	Blocks []ledger.Block
}

func main() {
	cfg := config{}
	if _, err := flags.ParseArgs(&cfg, os.Args[1:]); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}

	level := pterm.LogLevelInfo
	if cfg.Verbose {
		level = pterm.LogLevelDebug
	}
	handler := pterm.NewSlogHandler(pterm.DefaultLogger.WithLevel(level))
	logger := slog.New(handler)

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Hash", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Ledger", pterm.FgDarkGray.ToStyle()),
	).Render()

	rep, err := run(cfg, logger, time.Now)
	if err != nil {
		logger.Error("demo failed", "error", err)
		os.Exit(1)
	}

	printChain(rep.Blocks)
	printVerdict("before tampering", rep.Before)
	printVerdict(fmt.Sprintf("after tampering block %d", cfg.TamperAt), rep.After)
	if cfg.Metrics {
		if err := printMetrics(); err != nil {
			logger.Error("failed to gather metrics", "error", err)
		}
	}
}

func scheme(cfg config) (ledger.Scheme, error) {
	algorithm, err := ledger.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return ledger.Scheme{}, err
	}
	encoding, err := canon.Parse(cfg.Encoding)
	if err != nil {
		return ledger.Scheme{}, err
	}
	return ledger.Scheme{Algorithm: algorithm, Encoding: encoding}, nil
}

// run builds a ledger holding one block per configured amount, checks it,
// rewrites the configured block and checks it again.
func run(cfg config, logger *slog.Logger, clock func() time.Time) (report, error) {
	s, err := scheme(cfg)
	if err != nil {
		return report{}, err
	}
	opts := []ledger.Option{
		ledger.WithScheme(s),
		ledger.WithClock(clock),
		ledger.WithLogger(logger),
		ledger.WithObserver(metrics.NewLedger("demo")),
	}
	if cfg.Strict {
		opts = append(opts, ledger.WithStrictIndices())
	}
	bc, err := ledger.NewBlockchain(opts...)
	if err != nil {
		return report{}, err
	}

	now := clock()
	for i, amount := range cfg.Amounts {
		index := i + 1
		b, err := ledger.NewBlockWithScheme(s, index, now.Add(time.Duration(index)*time.Minute), map[string]int{"amount": amount})
		if err != nil {
			return report{}, err
		}
		if _, err := bc.Append(b); err != nil {
			return report{}, fmt.Errorf("append block %d: %w", index, err)
		}
	}

	rep := report{Before: bc.Verify()}

	err = bc.Tamper(cfg.TamperAt, func(b ledger.Block) (ledger.Block, error) {
		edited, err := b.WithData(map[string]int{"amount": cfg.TamperAmount})
		if err != nil || cfg.NoReseal {
			return edited, err
		}
		return edited.Reseal(), nil
	})
	if err != nil {
		return report{}, err
	}

	rep.After = bc.Verify()
	rep.Blocks = bc.Blocks()
	return rep, nil
}
