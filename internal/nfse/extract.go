// Package nfse extracts structured fields from NFS-e service-invoice PDF
// text using an ordered rule table. Rules fire independently; a rule that
// does not match leaves its field alone, and a later rule for the same field
// overwrites an earlier one. Provider and taker share label text in the
// source layout, so the taker rules are anchored on the "Tomador de Serviço"
// section header and placed after the label-only provider rules.
package nfse

import (
	"log/slog"
	"regexp"
	"strings"
)

type rule struct {
	re      *regexp.Regexp
	group   int
	section *regexp.Regexp // restrict the search to text after this header
	clear   bool           // monetary rule: reset the field when absent
	assign  func(*Record, string)
}

var rules = []rule{
	{re: regexp.MustCompile(`NFS-e\s*:?\s*([\d]+)`), group: 1,
		assign: func(r *Record, v string) { r.InvoiceNumber = v }},
	{re: regexp.MustCompile(`Data e Hora da Emissão\s*:?\s*([\d]{1,2}/[\d]{1,2}/[\d]{4}\s+\d{1,2}:\d{2})`), group: 1,
		assign: func(r *Record, v string) { r.IssueDate = v }},
	{re: regexp.MustCompile(`Competência\s*:?\s*(.+)`), group: 1,
		assign: func(r *Record, v string) { r.Competence = v }},
	{re: regexp.MustCompile(`Código de Verificação\s*:?\s*(.+)`), group: 1,
		assign: func(r *Record, v string) { r.VerificationCode = v }},
	{re: regexp.MustCompile(`Número do RPS\s*:?\s*([\d]+)`), group: 1,
		assign: func(r *Record, v string) { r.RPSNumber = v }},
	{re: regexp.MustCompile(`No\. da NFS-e substituída\s*:?\s*([\d]+)`), group: 1,
		assign: func(r *Record, v string) { r.ReplacedInvoice = v }},

	// Provider block. The bare labels appear first in the provider section of
	// the layout, so a plain first-match capture lands on the provider.
	{re: regexp.MustCompile(`Razão Social/Nome\s*:?\s*(.+)`), group: 1,
		assign: func(r *Record, v string) { r.ProviderName = v }},
	{re: regexp.MustCompile(`CNPJ/CPF\s*:?\s*([\d./-]+)`), group: 1,
		assign: func(r *Record, v string) { r.ProviderCNPJ = v }},
	{re: regexp.MustCompile(`Telefone\s*:?\s*([\d()\s-]+)`), group: 1,
		assign: func(r *Record, v string) { r.ProviderPhone = v }},
	{re: regexp.MustCompile(`e-mail\s*:?\s*([\w.-]+@[\w.-]+)`), group: 1,
		assign: func(r *Record, v string) { r.ProviderEmail = v }},

	// Taker block, anchored on the section header so the shared labels cannot
	// capture provider values. These run after the provider rules and win when
	// the section exists.
	{re: regexp.MustCompile(`Razão Social/Nome\s*:?\s*(.+)`), group: 1,
		section: regexp.MustCompile(`Tomador de Serviços?`),
		assign:  func(r *Record, v string) { r.TakerName = v }},
	{re: regexp.MustCompile(`CNPJ/CPF\s*:?\s*([\d./-]+)`), group: 1,
		section: regexp.MustCompile(`Tomador de Serviços?`),
		assign:  func(r *Record, v string) { r.TakerCNPJ = v }},
	{re: regexp.MustCompile(`Endereço e CEP\s*:?\s*(.+)`), group: 1,
		section: regexp.MustCompile(`Tomador de Serviços?`),
		assign:  func(r *Record, v string) { r.TakerAddress = v }},
	{re: regexp.MustCompile(`Telefone\s*:?\s*([\d()\s-]+)`), group: 1,
		section: regexp.MustCompile(`Tomador de Serviços?`),
		assign:  func(r *Record, v string) { r.TakerPhone = v }},
	{re: regexp.MustCompile(`e-mail\s*:?\s*([\w.-]+@[\w.-]+)`), group: 1,
		section: regexp.MustCompile(`Tomador de Serviços?`),
		assign:  func(r *Record, v string) { r.TakerEmail = v }},

	// Multi-line span terminated by the next known section header.
	{re: regexp.MustCompile(`(?s)Discriminação d(?:o|os) Serviços?\s*(.*?)\s*(?:Código do Serviço|Detalhamento Específico|Tributos Federais|Valor do Serviço)`), group: 1,
		assign: func(r *Record, v string) { r.ServiceDescription = v }},
	{re: regexp.MustCompile(`Código do Serviço\s*/\s*Atividade\s*(.+)`), group: 1,
		assign: func(r *Record, v string) { r.ServiceCode = v }},
	{re: regexp.MustCompile(`Detalhamento Específico da Construção Civil\s*(.+)`), group: 1,
		assign: func(r *Record, v string) { r.ConstructionDetail = v }},
	{re: regexp.MustCompile(`Código da Obra\s*(.+)`), group: 1,
		assign: func(r *Record, v string) { r.WorkCode = v }},
	{re: regexp.MustCompile(`Código ART\s*(.+)`), group: 1,
		assign: func(r *Record, v string) { r.ARTCode = v }},
	{re: regexp.MustCompile(`Tributos Federais\s*(.+)`), group: 1,
		assign: func(r *Record, v string) { r.FederalTaxes = v }},

	// Monetary rules clear the field when absent so extraction stays
	// idempotent per document.
	{re: regexp.MustCompile(`Valor d(?:o|os) Serviços?\s*R\$\s*([\d,.]+)`), group: 1, clear: true,
		assign: func(r *Record, v string) { r.ServiceValue = v }},
	{re: regexp.MustCompile(`Desconto Incondicionado\s*R\$\s*([\d,.]+)`), group: 1, clear: true,
		assign: func(r *Record, v string) { r.UnconditionalDiscount = v }},
	{re: regexp.MustCompile(`Desconto Condicionado\s*R\$\s*([\d,.]+)`), group: 1, clear: true,
		assign: func(r *Record, v string) { r.ConditionalDiscount = v }},
	{re: regexp.MustCompile(`Retenções Federais\s*R\$\s*([\d,.]+)`), group: 1, clear: true,
		assign: func(r *Record, v string) { r.FederalWithholding = v }},
	{re: regexp.MustCompile(`ISSQN Retido\s*R\$\s*([\d,.]+)`), group: 1, clear: true,
		assign: func(r *Record, v string) { r.ISSQNWithheld = v }},
	{re: regexp.MustCompile(`Valor Líquido\s*R\$\s*([\d,.]+)`), group: 1, clear: true,
		assign: func(r *Record, v string) { r.NetValue = v }},

	{re: regexp.MustCompile(`Regime Especial Tributação\s*(.+)`), group: 1,
		assign: func(r *Record, v string) { r.SpecialTaxRegime = v }},
	{re: regexp.MustCompile(`Opção Simples Nacional\s*(.+)`), group: 1,
		assign: func(r *Record, v string) { r.SimplesNacional = v }},
	{re: regexp.MustCompile(`Incentivador Cultural\s*(.+)`), group: 1,
		assign: func(r *Record, v string) { r.CulturalIncentive = v }},
	{re: regexp.MustCompile(`Avisos\s*(.+)`), group: 1,
		assign: func(r *Record, v string) { r.Notices = v }},
}

// Extract runs the rule table over every page of one document and returns a
// fresh record. An empty page never fires a rule; a document with no text at
// all still yields a record carrying only the source filename, which the
// caller filters out later by its missing invoice number.
func Extract(pages []string, filename string, logger *slog.Logger) *Record {
	if logger == nil {
		logger = slog.Default()
	}

	rec := &Record{SourceFile: filename}
	sawText := false
	for i, text := range pages {
		if strings.TrimSpace(text) == "" {
			logger.Warn("nfse.extract.empty_page", "file", filename, "page", i+1)
			continue
		}
		sawText = true
		applyRules(rec, text)
	}
	if !sawText {
		logger.Warn("nfse.extract.no_text", "file", filename)
	}
	return rec
}

func applyRules(rec *Record, text string) {
	for _, rl := range rules {
		region := text
		if rl.section != nil {
			loc := rl.section.FindStringIndex(text)
			if loc == nil {
				continue
			}
			region = text[loc[1]:]
		}
		m := rl.re.FindStringSubmatch(region)
		if m == nil {
			if rl.clear {
				rl.assign(rec, "")
			}
			continue
		}
		rl.assign(rec, strings.TrimSpace(m[rl.group]))
	}
}
