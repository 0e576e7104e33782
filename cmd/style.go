package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pterm/pterm"

	"github.com/luca-patrignani/hashledger/ledger"
)

func chainTable(blocks []ledger.Block) pterm.TableData {
	data := pterm.TableData{{"#", "Index", "Timestamp", "Payload", "Prev hash", "Hash", "Sealed"}}
	for pos, b := range blocks {
		sealed := pterm.LightGreen("yes")
		if !b.IsSealed() {
			sealed = pterm.LightRed("no")
		}
		data = append(data, []string{
			strconv.Itoa(pos),
			strconv.Itoa(b.Index()),
			ledger.FormatTimestamp(b.Timestamp()),
			fmt.Sprint(b.Data()),
			short(b.PrevHash()),
			short(b.Hash()),
			sealed,
		})
	}
	return data
}

func short(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:16] + "…"
}

func printChain(blocks []ledger.Block) {
	if err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(chainTable(blocks)).Render(); err != nil {
		pterm.Error.Println(err)
	}
}

func verdict(label string, err error) string {
	if err == nil {
		return pterm.Sprintf("Is my blockchain valid? (%s): %s", label, pterm.LightGreen("true"))
	}
	reason := err.Error()
	var ie *ledger.IntegrityError
	if errors.As(err, &ie) {
		reason = fmt.Sprintf("block %d: %v", ie.Position, ie.Err)
	}
	return pterm.Sprintf("Is my blockchain valid? (%s): %s (%s)", label, pterm.LightRed("false"), reason)
}

func printVerdict(label string, err error) {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	pbox.WithTitle(pterm.LightYellow("|VERIFY|")).WithTitleTopCenter().Println(verdict(label, err))
}

func printMetrics() error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	data := pterm.TableData{{"Metric", "Labels", "Value"}}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "hashledger_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			var value string
			switch {
			case m.GetCounter() != nil:
				value = fmt.Sprint(m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				value = fmt.Sprint(m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				value = fmt.Sprintf("%d samples", m.GetHistogram().GetSampleCount())
			}
			data = append(data, []string{mf.GetName(), strings.Join(labels, ","), value})
		}
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
