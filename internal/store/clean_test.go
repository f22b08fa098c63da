package store

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/devpython86/nfe-processor/internal/nfe"
	"github.com/devpython86/nfe-processor/internal/pipeline"
)

func TestStore(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	RegisterFailHandler(Fail)
	RunSpecs(t, "Store Suite")
}

var _ = Describe("CleanValue", func() {
	It("formats times as plain strings", func() {
		ts := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
		Expect(CleanValue(ts)).To(Equal("2024-05-10 14:30:00"))
	})

	It("turns integer-valued floats into int64", func() {
		Expect(CleanValue(4501.0)).To(Equal(int64(4501)))
		Expect(CleanValue(10.5)).To(Equal(10.5))
	})

	It("degrades NaN and nil pointers to null", func() {
		Expect(CleanValue(math.NaN())).To(BeNil())
		var f *float64
		Expect(CleanValue(f)).To(BeNil())
	})

	It("dereferences float pointers", func() {
		v := 3.0
		Expect(CleanValue(&v)).To(Equal(int64(3)))
	})

	It("passes strings through untouched", func() {
		Expect(CleanValue("00000000000191")).To(Equal("00000000000191"))
	})
})

var _ = Describe("RowDocument", func() {
	It("keeps identifier columns as strings and aggregates as numbers", func() {
		qtd := 2.0
		r := pipeline.Row{
			LineItem: nfe.LineItem{
				ChNFe:    "NFe42240112345678000199550010000001001000000012",
				NNf:      "100",
				EmitCNPJ: "00000000000191",
			},
			UniqueKey:          "100-1-parafuso",
			Qtd:                &qtd,
			TotalInvoicesPerPO: 2,
			ValorRecebidoPO:    40.0,
		}

		doc := RowDocument(&r)

		Expect(doc["nNf"]).To(Equal("100"))
		Expect(doc["emitCnpj"]).To(Equal("00000000000191"))
		Expect(doc["qtd"]).To(Equal(int64(2)))
		Expect(doc["total_invoices_per_po"]).To(Equal(2))
		Expect(doc["valor_recebido_po"]).To(Equal(int64(40)))
		Expect(doc["vlUnProd"]).To(BeNil())
	})

	It("validates against the line-item schema", func() {
		r := pipeline.Row{
			LineItem:  nfe.LineItem{ChNFe: "NFe1", NNf: "1"},
			UniqueKey: "1-1-x",
		}
		Expect(ValidateDocument(LineItemSchema, RowDocument(&r))).To(Succeed())
	})

	It("rejects a document with a numeric invoice number", func() {
		doc := map[string]any{"chNfe": "NFe1", "nNf": 100, "unique": "k"}
		Expect(ValidateDocument(LineItemSchema, doc)).NotTo(Succeed())
	})
})

var _ = Describe("ServiceDocuments", func() {
	It("zips headers with row values, padding short rows", func() {
		docs := ServiceDocuments([]string{"a", "b", "c"}, [][]string{{"1", "2"}})
		Expect(docs).To(HaveLen(1))
		Expect(docs[0]["a"]).To(Equal("1"))
		Expect(docs[0]["c"]).To(Equal(""))
	})
})
