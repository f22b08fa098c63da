// Package category classifies goods-invoice line items by their CFOP
// operation code and issuer identity. Two classification schemes coexist on
// purpose: Categorize answers the broad "what kind of movement is this" and
// CategorizeAlt answers a narrower operational grouping. They overlap but are
// not reconciled; both are exported as separate columns.
package category

import "strings"

// Labels shared by both categorizers.
const (
	Outros = "Outros"

	companyToken = "ANDRITZ"
)

func set(codes ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		m[c] = struct{}{}
	}
	return m
}

var (
	manutencao = set(
		"1915", "2915", "1916", "2916",
		"5915", "6915", "5916", "6916",
	)
	retorno = set(
		"1201", "1202", "1203", "1204", "1410", "1411", "1503", "1504",
		"2201", "2202", "2203", "2204", "2410", "2411", "2503", "2504",
		"5201", "5202", "5210", "5410", "5411", "5412", "5413", "5503", "5504",
		"6201", "6202", "6210", "6410", "6411", "6412", "6413", "6503", "6504",
	)
	remessa = set(
		"1554", "1901", "1902", "1903", "1904", "1905", "1906", "1907", "1908", "1909", "1913", "1914", "1921",
		"2901", "2902", "2903", "2904", "2905", "2906", "2907", "2908", "2909", "2913", "2914", "2921",
		"5901", "5902", "5903", "5904", "5905", "5906", "5907", "5908", "5909", "5913", "5914", "5921",
		"6901", "6902", "6903", "6904", "6905", "6906", "6907", "6908", "6909", "6913", "6914", "6921",
	)
	devolucao = set(
		"1201", "1202", "1203", "1204", "1209", "1410", "1411", "1503", "1504", "1921",
		"2201", "2202", "2203", "2204", "2209", "2410", "2411", "2503", "2504", "2921",
		"5201", "5202", "5203", "5204", "5209", "5410", "5411", "5412", "5413", "5503", "5504", "5921",
		"6201", "6202", "6203", "6204", "6209", "6410", "6411", "6412", "6413", "6503", "6504", "6921",
	)
	industrializacao = set(
		"1124", "1125", "1126", "2124", "2125", "2126",
		"5124", "5125", "5126", "6124", "6125", "6126",
	)

	venda = set(
		"5101", "5102", "5401", "5403", "5405", "5551", "5653", "5656",
		"6101", "6102", "6107", "6108", "6401", "6403", "6404",
		"5923", "6653", "6923",
	)
	transfFiliaisRetorno = set("1949", "2554", "2908", "2949")
	transfFiliaisEnvio   = set("6949", "5554", "6554", "6555")
	manutencaoEnvio      = set("5915", "5901", "6915")
)

func isSelfIssued(issuerName string) bool {
	return strings.Contains(strings.ToUpper(issuerName), companyToken)
}

func in(m map[string]struct{}, cfop string) bool {
	_, ok := m[cfop]
	return ok
}

// Categorize maps a CFOP and issuer name to the broad business category.
// Any code outside the tables falls through to "Outros"; the function never
// fails.
func Categorize(cfop, issuerName string) string {
	cfop = strings.TrimSpace(cfop)
	self := isSelfIssued(issuerName)

	switch {
	case in(manutencao, cfop):
		return "Manutenção/Conserto/Reparo"
	case in(retorno, cfop):
		return "Retorno de Mercadoria"
	case in(remessa, cfop):
		return "Remessa"
	case in(devolucao, cfop):
		return "Devolução"
	case in(industrializacao, cfop):
		return "Industrialização"
	case strings.HasPrefix(cfop, "3") || strings.HasPrefix(cfop, "7"):
		return "Importação/Exportação"
	case strings.HasPrefix(cfop, "1") || strings.HasPrefix(cfop, "2"):
		if self {
			return "Transferência Entre Filiais"
		}
		return "Compra de Terceiros"
	case strings.HasPrefix(cfop, "5") || strings.HasPrefix(cfop, "6"):
		if self {
			return "Transferência Entre Filiais"
		}
		return "Venda para Terceiros"
	}
	return Outros
}

// CategorizeAlt is the second, narrower scheme kept alongside Categorize.
func CategorizeAlt(cfop, issuerName string) string {
	cfop = strings.TrimSpace(cfop)
	self := isSelfIssued(issuerName)

	switch {
	case in(manutencaoEnvio, cfop):
		if self {
			return "Manutenção/Conserto/Reparo - Envio"
		}
		return "Manutenção/Conserto/Reparo - Retorno"
	case in(venda, cfop):
		if self {
			return "Transferência Entre Filiais - venda"
		}
		return "Venda de Terceiros"
	case in(transfFiliaisRetorno, cfop):
		if self {
			return "Transferência Entre Filiais - Retorno"
		}
		return "Manutenção/Conserto/Reparo - Retorno"
	case in(transfFiliaisEnvio, cfop):
		if self {
			return "Transferência Entre Filiais - Envio"
		}
		return "Manutenção/Conserto/Reparo - Envio"
	}
	return Outros
}
