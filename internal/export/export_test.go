package export

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/devpython86/nfe-processor/internal/nfe"
	"github.com/devpython86/nfe-processor/internal/nfse"
	"github.com/devpython86/nfe-processor/internal/pipeline"
)

func TestExport(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	RegisterFailHandler(Fail)
	RunSpecs(t, "Export Suite")
}

func sampleRow() pipeline.Row {
	qtd := 2.00
	return pipeline.Row{
		LineItem: nfe.LineItem{
			ChNFe:       "NFe42240112345678000199550010000001001000000012",
			NNf:         "100",
			ItemSeq:     1,
			Description: "PARAFUSO SEXTAVADO",
			Unit:        "UN",
		},
		UniqueKey: "100-1-parafuso-sextavado",
		Qtd:       &qtd,
		PO:        "4501000111",
		Categoria: "Compra de Terceiros",
	}
}

var _ = Describe("WriteLineItems", func() {
	It("writes the header row and one row per line item", func() {
		data, err := WriteLineItems([]pipeline.Row{sampleRow()}, "Invoices", nil)
		Expect(err).NotTo(HaveOccurred())

		f, err := excelize.OpenReader(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Invoices")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0][0]).To(Equal("nNf"))
		Expect(rows[0]).To(HaveLen(len(lineItemHeaders)))
		Expect(rows[1][0]).To(Equal("100"))
		Expect(rows[1][3]).To(Equal("PARAFUSO SEXTAVADO"))
	})

	It("leaves absent numeric values as empty cells", func() {
		r := sampleRow()
		r.Qtd = nil
		data, err := WriteLineItems([]pipeline.Row{r}, "", nil)
		Expect(err).NotTo(HaveOccurred())

		f, err := excelize.OpenReader(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		v, err := f.GetCellValue("Invoices", "F2")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeEmpty())
	})
})

var _ = Describe("WriteServiceInvoices", func() {
	It("uses the record header order", func() {
		rec := &nfse.Record{InvoiceNumber: "55", SourceFile: "doc.pdf"}
		data, err := WriteServiceInvoices([]*nfse.Record{rec}, "NFS-e", nil)
		Expect(err).NotTo(HaveOccurred())

		f, err := excelize.OpenReader(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("NFS-e")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows[0][0]).To(Equal(nfse.Header[0]))
		Expect(rows[1][0]).To(Equal("55"))
	})
})

var _ = Describe("Snapshot", func() {
	It("round-trips processed rows", func() {
		path := filepath.Join(GinkgoT().TempDir(), "batch.snap")
		in := []pipeline.Row{sampleRow()}

		Expect(WriteSnapshot(path, in)).To(Succeed())

		out, err := ReadSnapshot(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(1))
		Expect(out[0].UniqueKey).To(Equal(in[0].UniqueKey))
		Expect(out[0].Qtd).To(HaveValue(Equal(2.00)))
	})

	It("fails on a missing file", func() {
		_, err := ReadSnapshot(filepath.Join(GinkgoT().TempDir(), "absent.snap"))
		Expect(err).To(HaveOccurred())
	})
})
