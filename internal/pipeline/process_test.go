package pipeline

import (
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/devpython86/nfe-processor/internal/nfe"
	"github.com/devpython86/nfe-processor/internal/nfse"
)

func TestPipeline(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	RegisterFailHandler(Fail)
	RunSpecs(t, "Pipeline Suite")
}

func item(ch, nnf string, seq int, desc string) nfe.LineItem {
	return nfe.LineItem{
		ChNFe:       ch,
		NNf:         nnf,
		ItemSeq:     seq,
		Description: desc,
		DtEmi:       "2024-05-10T10:00:00-03:00",
	}
}

var _ = Describe("Process", func() {
	It("collapses rows with identical dedup keys, keeping the first", func() {
		b := NewBatch()
		first := item("chA", "100", 1, "Parafuso M10")
		first.ProductCode = "ORIGINAL"
		second := item("chA", "100", 1, "Parafuso M10")
		second.ProductCode = "DUPLICATE"
		third := item("chA", "100", 2, "Parafuso M10")
		b.Add([]nfe.LineItem{first, second, third})

		Process(b, nil)

		Expect(b.Rows).To(HaveLen(2))
		Expect(b.Rows[0].ProductCode).To(Equal("ORIGINAL"))
		Expect(b.Rows[1].ItemSeq).To(Equal(2))
	})

	It("coerces quantity and values to two decimals, nil on garbage", func() {
		b := NewBatch()
		it := item("chA", "100", 1, "Item")
		it.Quantity = "10.1234"
		it.UnitValue = "1.005"
		it.TotalValue = "not-a-number"
		b.Add([]nfe.LineItem{it})

		Process(b, nil)

		Expect(b.Rows[0].Qtd).To(HaveValue(Equal(10.12)))
		Expect(b.Rows[0].VlUnProd).To(HaveValue(BeNumerically("~", 1.0, 0.011)))
		Expect(b.Rows[0].VlTotProd).To(BeNil())
	})

	It("scales the cents-encoded document values and keeps absence nil", func() {
		b := NewBatch()
		it := item("chA", "100", 1, "Item")
		it.DocTotal = "150000"
		it.OriginalValue = "5"
		b.Add([]nfe.LineItem{it})

		Process(b, nil)

		Expect(b.Rows[0].VlTotalNf).To(HaveValue(Equal(1500.00)))
		Expect(b.Rows[0].VlOriginal).To(HaveValue(Equal(0.05)))
		Expect(b.Rows[0].VlPago).To(BeNil())
	})

	It("recomputes the per-document line total after deduplication", func() {
		b := NewBatch()
		a1 := item("chA", "100", 1, "Item um")
		a1.TotalValue = "10.00"
		a1dup := a1
		a2 := item("chA", "100", 2, "Item dois")
		a2.TotalValue = "5.50"
		other := item("chB", "200", 1, "Outro")
		other.TotalValue = "99.00"
		b.Add([]nfe.LineItem{a1, a1dup, a2, other})

		Process(b, nil)

		for _, r := range b.Rows {
			switch r.ChNFe {
			case "chA":
				Expect(r.TotalNF).To(Equal(15.50))
			case "chB":
				Expect(r.TotalNF).To(Equal(99.00))
			}
		}
	})

	It("uppercases and collapses whitespace in descriptions", func() {
		b := NewBatch()
		it := item("chA", "100", 1, "  Parafuso   sextavado  ")
		b.Add([]nfe.LineItem{it})

		Process(b, nil)

		Expect(b.Rows[0].Description).To(Equal("PARAFUSO SEXTAVADO"))
	})

	It("propagates the first non-empty PO to every row of the document", func() {
		b := NewBatch()
		r1 := item("chA", "100", 1, "um")
		r2 := item("chA", "100", 2, "dois")
		r2.XPed = "4501987654321" // longer than 10, will be truncated
		r3 := item("chA", "100", 3, "tres")
		b.Add([]nfe.LineItem{r1, r2, r3})

		Process(b, nil)

		for _, r := range b.Rows {
			Expect(r.PO).To(Equal("4501987654"))
		}
	})

	It("ignores tokens without a recognized PO prefix", func() {
		b := NewBatch()
		it := item("chA", "100", 1, "um")
		it.InfAdic = "Pedido 9901234567 conforme contrato"
		b.Add([]nfe.LineItem{it})

		Process(b, nil)

		Expect(b.Rows[0].PO).To(BeEmpty())
	})

	It("reformats the due date and pads tax identifications", func() {
		b := NewBatch()
		it := item("chA", "100", 1, "um")
		it.DVenc = "2024-06-10"
		it.EmitCNPJ = "191"
		it.DestCNPJ = "98765432000188"
		b.Add([]nfe.LineItem{it})

		Process(b, nil)

		Expect(b.Rows[0].DVenc).To(Equal("10/06/2024"))
		Expect(b.Rows[0].EmitCNPJ).To(Equal("00000000000191"))
		Expect(b.Rows[0].DestCNPJ).To(Equal("98765432000188"))
	})

	It("joins purchase-order aggregates back onto every row", func() {
		b := NewBatch()
		a := item("chA", "100", 1, "um")
		a.XPed = "4501000111"
		a.TotalValue = "10.00"
		a.Quantity = "2.00"
		c := item("chB", "200", 1, "dois")
		c.XPed = "4501000111"
		c.TotalValue = "30.00"
		c.Quantity = "3.00"
		b.Add([]nfe.LineItem{a, c})

		Process(b, nil)

		for _, r := range b.Rows {
			Expect(r.PO).To(Equal("4501000111"))
			Expect(r.TotalInvoicesPerPO).To(Equal(2))
			Expect(r.ValorRecebidoPO).To(Equal(40.00))
			Expect(r.TotalItensPO).To(Equal(5.00))
		}
	})

	It("sums quantities per document", func() {
		b := NewBatch()
		a := item("chA", "100", 1, "um")
		a.Quantity = "2.00"
		c := item("chA", "100", 2, "dois")
		c.Quantity = "3.00"
		b.Add([]nfe.LineItem{a, c})

		Process(b, nil)

		Expect(b.Rows[0].TotalItensNF).To(Equal(5.00))
		Expect(b.Rows[1].TotalItensNF).To(Equal(5.00))
	})

	It("assigns both category columns", func() {
		b := NewBatch()
		it := item("chA", "100", 1, "um")
		it.CFOP = "6102"
		it.EmitNome = "FORNECEDOR X"
		b.Add([]nfe.LineItem{it})

		Process(b, nil)

		Expect(b.Rows[0].Categoria).To(Equal("Venda para Terceiros"))
		Expect(b.Rows[0].MyCategoria).To(Equal("Venda de Terceiros"))
	})

	It("orders by issue date desc, invoice asc, item sequence asc", func() {
		b := NewBatch()
		older := item("chA", "300", 1, "velho")
		older.DtEmi = "2024-01-01T08:00:00-03:00"
		newerHighNf := item("chB", "200", 1, "novo b")
		newerHighNf.DtEmi = "2024-05-01T08:00:00-03:00"
		newerLowNf2 := item("chC", "100", 2, "novo c2")
		newerLowNf2.DtEmi = "2024-05-01T08:00:00-03:00"
		newerLowNf1 := item("chC", "100", 1, "novo c1")
		newerLowNf1.DtEmi = "2024-05-01T08:00:00-03:00"
		b.Add([]nfe.LineItem{older, newerHighNf, newerLowNf2, newerLowNf1})

		Process(b, nil)

		Expect(b.Rows[0].NNf).To(Equal("100"))
		Expect(b.Rows[0].ItemSeq).To(Equal(1))
		Expect(b.Rows[1].NNf).To(Equal("100"))
		Expect(b.Rows[1].ItemSeq).To(Equal(2))
		Expect(b.Rows[2].NNf).To(Equal("200"))
		Expect(b.Rows[3].NNf).To(Equal("300"))
	})
})

var _ = Describe("ProcessServiceInvoices", func() {
	It("drops records without an invoice number and sorts newest first", func() {
		valid := &nfse.Record{InvoiceNumber: "1", IssueDate: "01/03/2024 10:00", SourceFile: "a.pdf"}
		newer := &nfse.Record{InvoiceNumber: "2", IssueDate: "02/03/2024 10:00", SourceFile: "b.pdf"}
		invalid := &nfse.Record{SourceFile: "c.pdf"}

		out := ProcessServiceInvoices([]*nfse.Record{valid, newer, invalid}, nil)

		Expect(out).To(HaveLen(2))
		Expect(out[0].InvoiceNumber).To(Equal("2"))
		Expect(out[1].InvoiceNumber).To(Equal("1"))
	})
})
