// Package pipeline turns raw extracted line items into the normalized,
// deduplicated, categorized table the exporters and the uploader consume.
// Every transformation fills a whole column; rows are never left partially
// derived.
package pipeline

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/devpython86/nfe-processor/internal/category"
	"github.com/devpython86/nfe-processor/internal/normalize"
)

// poPrefixes are the purchase-order number families recognized inside
// free-text fields.
var poPrefixes = []string{"4501", "4502", "4503", "4504", "4505"}

// Process runs the full normalization and enrichment pass over the batch,
// in place. The step order matters: deduplication keys are built from the
// raw description before it is cleaned, and aggregates are recomputed after
// deduplication so a filtered-and-rejoined dataset stays consistent.
func Process(b *Batch, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	before := len(b.Rows)

	dedupe(b)
	coerceDecimals(b)
	scaleDocumentValues(b)
	recomputeDocumentTotals(b)
	cleanDescriptions(b)
	derivePurchaseOrders(b)
	coerceIdentifiers(b)
	sortByIssueDate(b)
	joinPOAggregates(b)
	joinDocumentAggregates(b)
	categorize(b)
	finalSort(b)

	logger.Info("pipeline.process.ok",
		"batch_id", b.ID.String(),
		"rows_in", before,
		"rows_out", len(b.Rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

// dedupe collapses rows sharing a (document number, item sequence,
// description) slug, keeping the first occurrence in input order.
func dedupe(b *Batch) {
	seen := make(map[string]struct{}, len(b.Rows))
	kept := b.Rows[:0]
	for _, row := range b.Rows {
		row.UniqueKey = normalize.Slugify(
			row.NNf + "-" + strconv.Itoa(row.ItemSeq) + "-" + row.Description)
		if _, dup := seen[row.UniqueKey]; dup {
			continue
		}
		seen[row.UniqueKey] = struct{}{}
		kept = append(kept, row)
	}
	b.Rows = kept
}

func parse2(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	r := normalize.Round2(f)
	return &r
}

func coerceDecimals(b *Batch) {
	for i := range b.Rows {
		r := &b.Rows[i]
		r.Qtd = parse2(r.Quantity)
		r.VlUnProd = parse2(r.UnitValue)
		r.VlTotProd = parse2(r.TotalValue)
	}
}

// scaleDocumentValues reinstates the decimal point on the integer-cents
// document total and billing values, then coerces them to floats. Absent
// values stay nil rather than becoming zero.
func scaleDocumentValues(b *Batch) {
	scaled := func(s string) *float64 {
		formatted := normalize.FormatScaled(s)
		if formatted == "" {
			return nil
		}
		f, err := strconv.ParseFloat(formatted, 64)
		if err != nil {
			return nil
		}
		return &f
	}
	for i := range b.Rows {
		r := &b.Rows[i]
		r.VlTotalNf = scaled(r.DocTotal)
		r.VlOriginal = scaled(r.OriginalValue)
		r.VlPago = scaled(r.PaidValue)
	}
}

func recomputeDocumentTotals(b *Batch) {
	totals := make(map[string]float64)
	for _, r := range b.Rows {
		if r.VlTotProd != nil {
			totals[r.ChNFe] += *r.VlTotProd
		}
	}
	for i := range b.Rows {
		b.Rows[i].TotalNF = normalize.Round2(totals[b.Rows[i].ChNFe])
	}
}

func cleanDescriptions(b *Batch) {
	for i := range b.Rows {
		b.Rows[i].Description = strings.ToUpper(normalize.CleanDescription(b.Rows[i].Description))
	}
}

// filterPOTokens keeps only the whitespace-delimited tokens that look like
// purchase-order numbers, each truncated to 10 characters.
func filterPOTokens(text string) string {
	var kept []string
	for _, tok := range strings.Fields(text) {
		for _, prefix := range poPrefixes {
			if strings.HasPrefix(tok, prefix) {
				if len(tok) > 10 {
					tok = tok[:10]
				}
				kept = append(kept, tok)
				break
			}
		}
	}
	return strings.Join(kept, " ")
}

// derivePurchaseOrders builds the PO column from the four free-text source
// fields and then propagates the first non-empty value per document key to
// every row of that document. A later empty value never overwrites a value
// already found.
func derivePurchaseOrders(b *Batch) {
	for i := range b.Rows {
		r := &b.Rows[i]
		combined := r.InfAdic + " " + r.XPed + " " + r.NItemPed + " " + r.InfAdProd
		po := filterPOTokens(combined)
		if len(po) > 10 {
			po = po[:10]
		}
		r.PO = po
	}

	firstPO := make(map[string]string)
	for _, r := range b.Rows {
		if r.PO == "" {
			continue
		}
		if _, ok := firstPO[r.ChNFe]; !ok {
			firstPO[r.ChNFe] = r.PO
		}
	}
	for i := range b.Rows {
		b.Rows[i].PO = firstPO[b.Rows[i].ChNFe]
	}
}

// coerceIdentifiers normalizes the identifier columns numerically and
// reformats the due date. The two tax identifications are padded back to 14
// digits after coercion.
func coerceIdentifiers(b *Batch) {
	for i := range b.Rows {
		r := &b.Rows[i]
		r.DVenc = normalize.FormatDateBR(r.DVenc)
		r.PO = normalize.ToNumericString(r.PO)
		r.NNf = normalize.ToNumericString(r.NNf)
		r.Serie = normalize.ToNumericString(r.Serie)
		r.NCM = normalize.ToNumericString(r.NCM)
		r.CFOP = normalize.ToNumericString(r.CFOP)
		r.EmitAddr.ZIP = normalize.ToNumericString(r.EmitAddr.ZIP)
		r.EmitAddr.Country = normalize.ToNumericString(r.EmitAddr.Country)
		r.DestAddr.ZIP = normalize.ToNumericString(r.DestAddr.ZIP)
		r.DestAddr.Country = normalize.ToNumericString(r.DestAddr.Country)
		r.EmitCNPJ = normalize.PadCNPJ(normalize.ToNumericString(r.EmitCNPJ))
		r.DestCNPJ = normalize.PadCNPJ(normalize.ToNumericString(r.DestCNPJ))
	}
}

func sortByIssueDate(b *Batch) {
	sort.SliceStable(b.Rows, func(i, j int) bool {
		return b.Rows[i].DtEmi > b.Rows[j].DtEmi
	})
}

func joinPOAggregates(b *Batch) {
	type poAgg struct {
		docs  map[string]struct{}
		total float64
		qty   float64
	}
	aggs := make(map[string]*poAgg)
	for _, r := range b.Rows {
		if r.PO == "" {
			continue
		}
		a := aggs[r.PO]
		if a == nil {
			a = &poAgg{docs: make(map[string]struct{})}
			aggs[r.PO] = a
		}
		a.docs[r.ChNFe] = struct{}{}
		if r.VlTotProd != nil {
			a.total += *r.VlTotProd
		}
		if r.Qtd != nil {
			a.qty += *r.Qtd
		}
	}
	for i := range b.Rows {
		r := &b.Rows[i]
		if a := aggs[r.PO]; a != nil {
			r.TotalInvoicesPerPO = len(a.docs)
			r.ValorRecebidoPO = normalize.Round2(a.total)
			r.TotalItensPO = normalize.Round2(a.qty)
		}
	}
}

func joinDocumentAggregates(b *Batch) {
	qty := make(map[string]float64)
	for _, r := range b.Rows {
		if r.Qtd != nil {
			qty[r.ChNFe] += *r.Qtd
		}
	}
	for i := range b.Rows {
		b.Rows[i].TotalItensNF = normalize.Round2(qty[b.Rows[i].ChNFe])
	}
}

func categorize(b *Batch) {
	for i := range b.Rows {
		r := &b.Rows[i]
		r.Categoria = category.Categorize(r.CFOP, r.EmitNome)
		r.MyCategoria = category.CategorizeAlt(r.CFOP, r.EmitNome)
	}
}

// finalSort orders by issue date descending, then invoice number ascending,
// then item sequence ascending.
func finalSort(b *Batch) {
	num := func(s string) float64 {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	}
	sort.SliceStable(b.Rows, func(i, j int) bool {
		a, c := &b.Rows[i], &b.Rows[j]
		if a.DtEmi != c.DtEmi {
			return a.DtEmi > c.DtEmi
		}
		if na, nc := num(a.NNf), num(c.NNf); na != nc {
			return na < nc
		}
		return a.ItemSeq < c.ItemSeq
	})
}

// Summary is a small human-readable digest used by the CLI.
func (b *Batch) Summary() string {
	docs := make(map[string]struct{})
	issuers := make(map[string]struct{})
	for _, r := range b.Rows {
		docs[r.ChNFe] = struct{}{}
		issuers[r.EmitNome] = struct{}{}
	}
	return fmt.Sprintf("%d rows, %d documents, %d issuers", len(b.Rows), len(docs), len(issuers))
}
