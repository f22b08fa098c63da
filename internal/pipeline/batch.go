package pipeline

import (
	"github.com/google/uuid"

	"github.com/devpython86/nfe-processor/internal/nfe"
)

// Row is one normalized goods-invoice line: the extracted fields plus every
// column the pipeline derives. Coerced numeric columns are pointers so that
// "not a number" stays distinguishable from zero.
type Row struct {
	nfe.LineItem

	UniqueKey string

	Qtd       *float64
	VlUnProd  *float64
	VlTotProd *float64

	VlTotalNf  *float64 // scaled document total from the source
	VlOriginal *float64
	VlPago     *float64

	TotalNF float64 // per-document sum of line totals, recomputed
	PO      string

	TotalInvoicesPerPO int
	TotalItensNF       float64
	TotalItensPO       float64
	ValorRecebidoPO    float64

	Categoria   string
	MyCategoria string
}

// Batch is the explicit session state for one upload: rows accumulated from
// any number of documents plus processing warnings. Callers pass it through
// each stage; nothing in the pipeline is global, so concurrent sessions do
// not interfere.
type Batch struct {
	ID       uuid.UUID
	Rows     []Row
	Warnings []string
}

func NewBatch() *Batch {
	return &Batch{ID: uuid.New()}
}

// Add appends extracted line items to the batch in input order.
func (b *Batch) Add(items []nfe.LineItem) {
	for _, it := range items {
		b.Rows = append(b.Rows, Row{LineItem: it})
	}
}

// Warn records a non-fatal processing note.
func (b *Batch) Warn(msg string) {
	b.Warnings = append(b.Warnings, msg)
}
