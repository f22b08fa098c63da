package category

import (
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCategory(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Suite")
}

var _ = Describe("Categorize", func() {
	It("classifies maintenance codes", func() {
		Expect(Categorize("1915", "FORNECEDOR X")).To(Equal("Manutenção/Conserto/Reparo"))
		Expect(Categorize("6916", "FORNECEDOR X")).To(Equal("Manutenção/Conserto/Reparo"))
	})

	It("classifies returns ahead of the directional default", func() {
		Expect(Categorize("1202", "FORNECEDOR X")).To(Equal("Retorno de Mercadoria"))
		Expect(Categorize("6413", "ANDRITZ BRASIL LTDA")).To(Equal("Retorno de Mercadoria"))
	})

	It("classifies shipments and processing", func() {
		Expect(Categorize("5901", "X")).To(Equal("Remessa"))
		Expect(Categorize("1124", "X")).To(Equal("Industrialização"))
	})

	It("treats prefix 3 and 7 as import/export", func() {
		Expect(Categorize("3102", "X")).To(Equal("Importação/Exportação"))
		Expect(Categorize("7101", "X")).To(Equal("Importação/Exportação"))
	})

	It("refines the directional default by issuer identity", func() {
		Expect(Categorize("1101", "ANDRITZ BRASIL LTDA")).To(Equal("Transferência Entre Filiais"))
		Expect(Categorize("1101", "FORNECEDOR X")).To(Equal("Compra de Terceiros"))
		Expect(Categorize("6102", "ANDRITZ BRASIL LTDA")).To(Equal("Transferência Entre Filiais"))
		Expect(Categorize("6102", "FORNECEDOR X")).To(Equal("Venda para Terceiros"))
	})

	It("matches the issuer token case-insensitively", func() {
		Expect(Categorize("1101", "Andritz Separation")).To(Equal("Transferência Entre Filiais"))
	})

	It("never returns Outros for a code in any membership table", func() {
		tables := []map[string]struct{}{manutencao, retorno, remessa, devolucao, industrializacao}
		for _, table := range tables {
			for cfop := range table {
				Expect(Categorize(cfop, "FORNECEDOR X")).NotTo(Equal(Outros), cfop)
			}
		}
	})

	It("falls through to Outros for unknown codes", func() {
		Expect(Categorize("9999", "X")).To(Equal(Outros))
		Expect(Categorize("", "X")).To(Equal(Outros))
	})
})

var _ = Describe("CategorizeAlt", func() {
	It("splits maintenance into send and return by issuer", func() {
		Expect(CategorizeAlt("5915", "ANDRITZ BRASIL LTDA")).To(Equal("Manutenção/Conserto/Reparo - Envio"))
		Expect(CategorizeAlt("5915", "FORNECEDOR X")).To(Equal("Manutenção/Conserto/Reparo - Retorno"))
	})

	It("splits sales by issuer", func() {
		Expect(CategorizeAlt("6102", "ANDRITZ BRASIL LTDA")).To(Equal("Transferência Entre Filiais - venda"))
		Expect(CategorizeAlt("6102", "FORNECEDOR X")).To(Equal("Venda de Terceiros"))
	})

	It("splits inter-branch transfers into send and return", func() {
		Expect(CategorizeAlt("2949", "ANDRITZ BRASIL LTDA")).To(Equal("Transferência Entre Filiais - Retorno"))
		Expect(CategorizeAlt("6554", "ANDRITZ BRASIL LTDA")).To(Equal("Transferência Entre Filiais - Envio"))
	})

	It("falls through to Outros for unknown codes", func() {
		Expect(CategorizeAlt("9999", "X")).To(Equal(Outros))
		Expect(CategorizeAlt("1101", "FORNECEDOR X")).To(Equal(Outros))
	})
})

var _ = Describe("both categorizers", func() {
	It("agree on the Outros default for codes outside every table", func() {
		for _, cfop := range []string{"4949", "8000", "abcd"} {
			Expect(Categorize(cfop, "X")).To(Equal(Outros))
			Expect(CategorizeAlt(cfop, "X")).To(Equal(Outros))
		}
	})
})
