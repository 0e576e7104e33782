package main

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/luca-patrignani/hashledger/ledger"
)

var discard = slog.New(slog.DiscardHandler)

func fixedClock() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func parse(t *testing.T, args ...string) config {
	t.Helper()

	cfg := config{}
	if _, err := flags.ParseArgs(&cfg, args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return cfg
}

// TestDefaults verifies the defaults reproduce the reference scenario.
func TestDefaults(t *testing.T) {
	cfg := parse(t)

	if len(cfg.Amounts) != 2 || cfg.Amounts[0] != 4 || cfg.Amounts[1] != 10 {
		t.Fatalf("expected default amounts [4 10], got %v", cfg.Amounts)
	}
	if cfg.TamperAt != 1 || cfg.TamperAmount != 400 {
		t.Fatalf("expected tamper of block 1 to 400, got block %d to %d", cfg.TamperAt, cfg.TamperAmount)
	}
	if cfg.Algorithm != "sha256" || cfg.Encoding != "json" {
		t.Fatalf("unexpected default scheme %s/%s", cfg.Algorithm, cfg.Encoding)
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantAfter error
	}{
		{name: "resealed payload", wantAfter: ledger.ErrBrokenLink},
		{name: "stale hash", args: []string{"--no-reseal"}, wantAfter: ledger.ErrHashMismatch},
		{name: "tamper tail", args: []string{"--tamper-at", "2"}, wantAfter: nil},
		{name: "tamper tail stale", args: []string{"--tamper-at", "2", "--no-reseal"}, wantAfter: ledger.ErrHashMismatch},
		{name: "cbor blake2b", args: []string{"--encoding", "cbor", "--algorithm", "blake2b-256"}, wantAfter: ledger.ErrBrokenLink},
		{name: "strict", args: []string{"--strict", "--amount", "1", "--amount", "2", "--amount", "3"}, wantAfter: ledger.ErrBrokenLink},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := run(parse(t, tt.args...), discard, fixedClock)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rep.Before != nil {
				t.Fatalf("expected valid chain before tampering, got %v", rep.Before)
			}
			if tt.wantAfter == nil && rep.After != nil {
				t.Fatalf("expected valid chain after tampering, got %v", rep.After)
			}
			if tt.wantAfter != nil && !errors.Is(rep.After, tt.wantAfter) {
				t.Fatalf("expected %v after tampering, got %v", tt.wantAfter, rep.After)
			}
		})
	}
}

// TestRunTamperedBlockContents verifies the report carries the rewritten block.
func TestRunTamperedBlockContents(t *testing.T) {
	rep, err := run(parse(t), discard, fixedClock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rep.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(rep.Blocks))
	}
	var payload map[string]int
	if err := rep.Blocks[1].DecodeData(&payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload["amount"] != 400 {
		t.Fatalf("expected tampered amount 400, got %d", payload["amount"])
	}
	if !rep.Blocks[1].IsSealed() {
		t.Fatal("resealed block should be sealed")
	}
	if want := fixedClock().Add(2 * time.Minute); !rep.Blocks[2].Timestamp().Equal(want) {
		t.Fatalf("expected block 2 at %v, got %v", want, rep.Blocks[2].Timestamp())
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown algorithm", args: []string{"--algorithm", "md5"}},
		{name: "unknown encoding", args: []string{"--encoding", "xml"}},
		{name: "tamper out of range", args: []string{"--tamper-at", "9"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(parse(t, tt.args...), discard, fixedClock); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestVerdict(t *testing.T) {
	if got := verdict("before", nil); !strings.Contains(got, "true") {
		t.Fatalf("expected true verdict, got %q", got)
	}
	err := &ledger.IntegrityError{Position: 2, Err: ledger.ErrBrokenLink}
	got := verdict("after", err)
	if !strings.Contains(got, "false") || !strings.Contains(got, "block 2") {
		t.Fatalf("expected false verdict naming block 2, got %q", got)
	}
}

func TestChainTable(t *testing.T) {
	rep, err := run(parse(t, "--no-reseal"), discard, fixedClock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data := chainTable(rep.Blocks)
	if len(data) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(data))
	}
	if data[1][4] != ledger.GenesisPrevHash {
		t.Fatalf("expected genesis prev hash in first row, got %q", data[1][4])
	}
	if !strings.Contains(data[2][6], "no") {
		t.Fatalf("expected stale block to be marked unsealed, got %q", data[2][6])
	}
}
