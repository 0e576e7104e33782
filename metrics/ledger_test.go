package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/luca-patrignani/hashledger/ledger"
)

func delta(t *testing.T, collector prometheus.Collector, observe func()) float64 {
	t.Helper()

	before := testutil.ToFloat64(collector)
	observe()
	after := testutil.ToFloat64(collector)
	return after - before
}

func TestLedgerRecords(t *testing.T) {
	m := NewLedger("")
	start := time.Now().Add(-time.Millisecond)

	if inc := delta(t, ledgerAppendTotal.WithLabelValues("unknown", "success"), func() {
		m.ObserveAppend(2, nil, start)
	}); inc != 1 {
		t.Fatalf("expected append success increment, got %v", inc)
	}

	if inc := delta(t, ledgerAppendTotal.WithLabelValues("unknown", "error"), func() {
		m.ObserveAppend(2, errors.New("boom"), start)
	}); inc != 1 {
		t.Fatalf("expected append error increment, got %v", inc)
	}

	if inc := delta(t, ledgerVerifyTotal.WithLabelValues("unknown", "invalid"), func() {
		m.ObserveVerify(5, errors.New("tampered"), start)
	}); inc != 1 {
		t.Fatalf("expected verify invalid increment, got %v", inc)
	}

	if got := testutil.ToFloat64(ledgerChainLength.WithLabelValues("unknown")); got != 5 {
		t.Fatalf("expected chain length 5, got %v", got)
	}
}

// TestLedgerObserverWiring drives a real chain and checks the collectors it
// feeds.
func TestLedgerObserverWiring(t *testing.T) {
	bc, err := ledger.NewBlockchain(ledger.WithObserver(NewLedger("wiring")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i <= 3; i++ {
		b, err := ledger.NewBlock(i, time.Now(), map[string]int{"amount": i})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := bc.Append(b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if inc := delta(t, ledgerVerifyTotal.WithLabelValues("wiring", "valid"), func() {
		bc.IsValid()
	}); inc != 1 {
		t.Fatalf("expected verify valid increment, got %v", inc)
	}

	if got := testutil.ToFloat64(ledgerAppendTotal.WithLabelValues("wiring", "success")); got != 3 {
		t.Fatalf("expected 3 successful appends, got %v", got)
	}
	if got := testutil.ToFloat64(ledgerChainLength.WithLabelValues("wiring")); got != 4 {
		t.Fatalf("expected chain length 4, got %v", got)
	}
}
