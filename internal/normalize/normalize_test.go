package normalize

import (
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestNormalize(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	RegisterFailHandler(Fail)
	RunSpecs(t, "Normalize Suite")
}

var _ = Describe("ParseDecimal", func() {
	It("parses Brazilian thousands and decimal separators", func() {
		Expect(ParseDecimal("1.234,56")).To(Equal(1234.56))
	})

	It("degrades to zero on empty input", func() {
		Expect(ParseDecimal("")).To(Equal(0.0))
	})

	It("degrades to zero on garbage", func() {
		Expect(ParseDecimal("abc")).To(Equal(0.0))
	})
})

var _ = Describe("ParseDecimalOrNil", func() {
	It("returns nil rather than zero for empty input", func() {
		Expect(ParseDecimalOrNil("")).To(BeNil())
	})

	It("returns nil for non-numeric text", func() {
		Expect(ParseDecimalOrNil("isento")).To(BeNil())
	})

	It("parses valid input", func() {
		f := ParseDecimalOrNil("15,50")
		Expect(f).NotTo(BeNil())
		Expect(*f).To(Equal(15.50))
	})
})

var _ = Describe("FormatScaled", func() {
	It("inserts the decimal point two digits from the right", func() {
		Expect(FormatScaled("150")).To(Equal("1.50"))
	})

	It("zero-pads values shorter than two digits", func() {
		Expect(FormatScaled("5")).To(Equal("0.05"))
	})

	It("keeps absence as absence", func() {
		Expect(FormatScaled("")).To(Equal(""))
	})

	It("refuses input that already carries a decimal marker", func() {
		Expect(FormatScaled("1.50")).To(Equal(""))
		Expect(FormatScaled("1,50")).To(Equal(""))
	})
})

var _ = Describe("FormatDateBR", func() {
	It("reformats ISO dates", func() {
		Expect(FormatDateBR("2024-03-09")).To(Equal("09/03/2024"))
	})

	It("accepts an ISO datetime and keeps the date part", func() {
		Expect(FormatDateBR("2024-03-09T14:22:05-03:00")).To(Equal("09/03/2024"))
	})

	It("passes through Brazilian dates", func() {
		Expect(FormatDateBR("09/03/2024")).To(Equal("09/03/2024"))
	})

	It("degrades to empty on unparseable input", func() {
		Expect(FormatDateBR("not a date")).To(Equal(""))
	})
})

var _ = Describe("Slugify", func() {
	It("folds accents and collapses separators", func() {
		Expect(Slugify("ABC Ltda. #1")).To(Equal("abc-ltda-1"))
	})

	It("folds Portuguese diacritics to ASCII", func() {
		Expect(Slugify("Manutenção São Paulo")).To(Equal("manutencao-sao-paulo"))
	})

	It("is idempotent", func() {
		s := Slugify("Peça 10 - Aço")
		Expect(Slugify(s)).To(Equal(s))
	})
})

var _ = Describe("CleanDescription", func() {
	It("collapses space runs and trims", func() {
		Expect(CleanDescription("  PARAFUSO   M10  ")).To(Equal("PARAFUSO M10"))
	})
})

var _ = Describe("ToNumericString", func() {
	It("strips the trailing .0 coercion artifact", func() {
		Expect(ToNumericString("4501.0")).To(Equal("4501"))
	})

	It("drops leading zeros", func() {
		Expect(ToNumericString("007")).To(Equal("7"))
	})

	It("returns empty for non-numeric input", func() {
		Expect(ToNumericString("N/A")).To(Equal(""))
	})
})

var _ = Describe("PadCNPJ", func() {
	It("zero-pads to 14 digits", func() {
		Expect(PadCNPJ("191")).To(Equal("00000000000191"))
	})

	It("strips the .0 artifact before padding", func() {
		Expect(PadCNPJ("45242914000105.0")).To(Equal("45242914000105"))
	})
})
