package nfse

// Record holds the fields extracted from one NFS-e service invoice PDF.
// Every field is optional; an empty string means the pattern for it never
// fired. A record without an invoice number is dropped downstream.
type Record struct {
	InvoiceNumber    string
	IssueDate        string
	Competence       string
	VerificationCode string
	RPSNumber        string
	ReplacedInvoice  string

	ProviderName  string
	ProviderCNPJ  string
	ProviderPhone string
	ProviderEmail string

	TakerName    string
	TakerCNPJ    string
	TakerAddress string
	TakerPhone   string
	TakerEmail   string

	ServiceDescription string
	ServiceCode        string
	ConstructionDetail string
	WorkCode           string
	ARTCode            string

	FederalTaxes          string
	ServiceValue          string
	UnconditionalDiscount string
	ConditionalDiscount   string
	FederalWithholding    string
	ISSQNWithheld         string
	NetValue              string

	SpecialTaxRegime  string
	SimplesNacional   string
	CulturalIncentive string
	Notices           string

	SourceFile string
}

// Valid reports whether the record carries the one field that makes it usable.
func (r *Record) Valid() bool {
	return r != nil && r.InvoiceNumber != ""
}

// Header is the column order used by the XLSX export.
var Header = []string{
	"Numero NFS-e", "Data Emissão", "Competencia", "Codigo de Verificacao",
	"Numero RPS", "NF-e Substituida",
	"Razao Social Prestador", "CNPJ Prestador", "Telefone Prestador", "Email Prestador",
	"Razao Social Tomador", "CNPJ Tomador", "Endereco Tomador", "Telefone Tomador", "Email Tomador",
	"Discriminacao do Servico", "Codigo Servico", "Detalhamento Especifico",
	"Codigo da Obra", "Codigo ART", "Tributos Federais",
	"Valor do Servico", "Desconto Incondicionado", "Desconto Condicionado",
	"Retencao Federal", "ISSQN Retido", "Valor Liquido",
	"Regime Especial Tributacao", "Simples Nacional", "Incentivador Cultural",
	"Avisos", "Nome do Arquivo",
}

// Row flattens the record in Header order.
func (r *Record) Row() []string {
	return []string{
		r.InvoiceNumber, r.IssueDate, r.Competence, r.VerificationCode,
		r.RPSNumber, r.ReplacedInvoice,
		r.ProviderName, r.ProviderCNPJ, r.ProviderPhone, r.ProviderEmail,
		r.TakerName, r.TakerCNPJ, r.TakerAddress, r.TakerPhone, r.TakerEmail,
		r.ServiceDescription, r.ServiceCode, r.ConstructionDetail,
		r.WorkCode, r.ARTCode, r.FederalTaxes,
		r.ServiceValue, r.UnconditionalDiscount, r.ConditionalDiscount,
		r.FederalWithholding, r.ISSQNWithheld, r.NetValue,
		r.SpecialTaxRegime, r.SimplesNacional, r.CulturalIncentive,
		r.Notices, r.SourceFile,
	}
}
