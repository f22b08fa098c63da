package pipeline

import (
	"log/slog"
	"sort"
	"time"

	"github.com/devpython86/nfe-processor/internal/nfse"
)

const nfseIssueLayout = "02/01/2006 15:04"

// ProcessServiceInvoices is the lighter normalization applied to the PDF
// path: records missing an invoice number are dropped and the remainder is
// sorted by issue date, newest first. Records whose issue date fails to
// parse sort last.
func ProcessServiceInvoices(records []*nfse.Record, logger *slog.Logger) []*nfse.Record {
	if logger == nil {
		logger = slog.Default()
	}

	kept := make([]*nfse.Record, 0, len(records))
	for _, rec := range records {
		if !rec.Valid() {
			logger.Warn("pipeline.nfse.dropped", "file", rec.SourceFile, "reason", "missing invoice number")
			continue
		}
		kept = append(kept, rec)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		ti, iok := parseIssue(kept[i].IssueDate)
		tj, jok := parseIssue(kept[j].IssueDate)
		if iok != jok {
			return iok
		}
		return ti.After(tj)
	})

	logger.Info("pipeline.nfse.ok", "records_in", len(records), "records_out", len(kept))
	return kept
}

func parseIssue(s string) (time.Time, bool) {
	t, err := time.Parse(nfseIssueLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
