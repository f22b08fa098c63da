// Package nfe turns NF-e v4 goods-invoice XML documents into line-item rows.
// A document with N det elements yields exactly N rows, each carrying the
// same document-level fields; a document with none yields no rows.
package nfe

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Address groups the nested address sub-fields of a party block.
type Address struct {
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	UF         string
	ZIP        string
	Country    string
}

// LineItem is one row of the goods-invoice table: document-level fields
// replicated per line plus the line's own fields.
//
// ImportDate, User and ExitDate map to the transport-block veicId, placa and
// uf elements. The column reuse is inherited from the established table
// layout and kept for compatibility; it is not a claim about vehicles.
type LineItem struct {
	ChNFe   string
	NNf     string
	Serie   string
	NatOp   string
	DtEmi   string
	InfAdic string
	DVenc   string

	EmitCNPJ string
	EmitNome string
	DestCNPJ string
	DestNome string

	DocTotal string // integer-cents encoding, scaled by the pipeline
	Freight  string

	ItemSeq     int
	ProductCode string
	Quantity    string
	Description string
	Unit        string
	UnitValue   string
	TotalValue  string
	NCM         string
	CFOP        string
	XPed        string
	NItemPed    string
	InfAdProd   string

	ImportDate string
	User       string
	ExitDate   string

	Invoice       string
	Installment   string
	OriginalValue string // integer-cents encoding
	PaidValue     string // integer-cents encoding

	EmitAddr Address
	DestAddr Address
}

// Parse extracts one LineItem per det element of a single NF-e document.
// Both the nfeProc wrapper and a bare NFe root are accepted. Missing elements
// propagate as empty strings, never as errors.
func Parse(data []byte) ([]LineItem, error) {
	inf, err := unmarshalInfNFe(data)
	if err != nil {
		return nil, err
	}

	doc := LineItem{
		ChNFe:    inf.ID,
		NNf:      clean(inf.Ide.NNF),
		Serie:    clean(inf.Ide.Serie),
		NatOp:    clean(inf.Ide.NatOp),
		DtEmi:    clean(inf.Ide.DhEmi),
		EmitCNPJ: clean(inf.Emit.CNPJ),
		EmitNome: clean(inf.Emit.XNome),
		DestCNPJ: clean(inf.Dest.CNPJ),
		DestNome: clean(inf.Dest.XNome),
		DocTotal: centsEncode(inf.Total.ICMSTot.VNF),
		Freight:  clean(inf.Total.ICMSTot.VFrete),

		ImportDate: clean(inf.Transp.Vol.VeicID),
		User:       clean(inf.Transp.Vol.Placa),
		ExitDate:   clean(inf.Transp.Vol.UF),

		EmitAddr: toAddress(inf.Emit.EnderEmi),
		DestAddr: toAddress(inf.Dest.EnderDes),
	}
	if inf.InfAdic != nil {
		doc.InfAdic = clean(inf.InfAdic.InfCpl)
	}
	if inf.Cobr != nil {
		doc.Invoice = clean(inf.Cobr.Fat.NFat)
		doc.OriginalValue = centsEncode(inf.Cobr.Fat.VOrig)
		doc.PaidValue = centsEncode(inf.Cobr.Fat.VLiq)
		if len(inf.Cobr.Dup) > 0 {
			doc.Installment = clean(inf.Cobr.Dup[0].NDup)
			doc.DVenc = clean(inf.Cobr.Dup[0].DVenc)
		}
	}

	items := make([]LineItem, 0, len(inf.Det))
	for i, d := range inf.Det {
		item := doc
		item.ItemSeq = i + 1
		item.ProductCode = clean(d.Prod.CProd)
		item.Quantity = clean(d.Prod.QCom)
		item.Description = clean(d.Prod.XProd)
		item.Unit = clean(d.Prod.UCom)
		item.UnitValue = clean(d.Prod.VUnCom)
		item.TotalValue = clean(d.Prod.VProd)
		item.NCM = clean(d.Prod.NCM)
		item.CFOP = clean(d.Prod.CFOP)
		item.XPed = clean(d.Prod.XPed)
		item.NItemPed = clean(d.Prod.NItemPed)
		item.InfAdProd = clean(d.InfAdProd)
		items = append(items, item)
	}
	return items, nil
}

func unmarshalInfNFe(data []byte) (*infNFe, error) {
	var proc nfeProc
	if err := xml.Unmarshal(data, &proc); err == nil && hasContent(proc.NFe.InfNFe) {
		return &proc.NFe.InfNFe, nil
	}
	var root nfeRoot
	if err := xml.Unmarshal(data, &root); err == nil && hasContent(root.InfNFe) {
		return &root.InfNFe, nil
	}
	return nil, fmt.Errorf("document is neither an nfeProc nor an NFe root")
}

func hasContent(inf infNFe) bool {
	return inf.ID != "" || inf.Ide.NNF != "" || len(inf.Det) > 0
}

func toAddress(a address) Address {
	return Address{
		Street:     clean(a.XLgr),
		Number:     clean(a.Nro),
		Complement: clean(a.Complemento),
		District:   clean(a.XBairro),
		City:       clean(a.XMun),
		UF:         clean(a.UF),
		ZIP:        clean(a.CEP),
		Country:    clean(a.CPais),
	}
}

func clean(s string) string {
	return strings.TrimSpace(s)
}

// centsEncode strips the decimal point from a schema decimal ("1500.00" ->
// "150000") so the pipeline's fixed-point scaler can reinstate it. Empty
// stays empty.
func centsEncode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", "")
}
