package store

import (
	"math"
	"time"

	"github.com/devpython86/nfe-processor/internal/pipeline"
)

const mongoTimeLayout = "2006-01-02 15:04:05"

// CleanValue coerces a single value into the shape the collection expects:
// times become formatted strings, integer-valued floats become int64 so they
// do not round-trip as "4501.0", and NaN degrades to null.
func CleanValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		return x.Format(mongoTimeLayout)
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.Format(mongoTimeLayout)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		if x == math.Trunc(x) && math.Abs(x) < float64(math.MaxInt64) {
			return int64(x)
		}
		return x
	case *float64:
		if x == nil {
			return nil
		}
		return CleanValue(*x)
	default:
		return v
	}
}

// CleanDocument applies CleanValue to every field.
func CleanDocument(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = CleanValue(v)
	}
	return out
}

// RowDocument flattens a processed row into the field names the collection
// uses, matching the workbook column names.
func RowDocument(r *pipeline.Row) map[string]any {
	return CleanDocument(map[string]any{
		"nNf":                   r.NNf,
		"dtEmi":                 r.DtEmi,
		"itemNf":                r.ItemSeq,
		"nomeMaterial":          r.Description,
		"ncm":                   r.NCM,
		"qtd":                   r.Qtd,
		"und":                   r.Unit,
		"vlUnProd":              r.VlUnProd,
		"vlTotProd":             r.VlTotProd,
		"vlTotalNf":             r.VlTotalNf,
		"vlFrete":               r.Freight,
		"natOp":                 r.NatOp,
		"serie":                 r.Serie,
		"infAdic":               r.InfAdic,
		"po":                    r.PO,
		"dVenc":                 r.DVenc,
		"fatura":                r.Invoice,
		"duplicata":             r.Installment,
		"vlOriginal":            r.VlOriginal,
		"vlPago":                r.VlPago,
		"dataImportacao":        r.ImportDate,
		"usuario":               r.User,
		"dataSaida":             r.ExitDate,
		"chNfe":                 r.ChNFe,
		"cfop":                  r.CFOP,
		"emitCnpj":              r.EmitCNPJ,
		"emitNome":              r.EmitNome,
		"emitLogradouro":        r.EmitAddr.Street,
		"emitNumero":            r.EmitAddr.Number,
		"emitComplemento":       r.EmitAddr.Complement,
		"emitBairro":            r.EmitAddr.District,
		"emitMunicipio":         r.EmitAddr.City,
		"emitUf":                r.EmitAddr.UF,
		"emitCep":               r.EmitAddr.ZIP,
		"emitPais":              r.EmitAddr.Country,
		"destCnpj":              r.DestCNPJ,
		"destNome":              r.DestNome,
		"destLogradouro":        r.DestAddr.Street,
		"destNumero":            r.DestAddr.Number,
		"destComplemento":       r.DestAddr.Complement,
		"destBairro":            r.DestAddr.District,
		"destMunicipio":         r.DestAddr.City,
		"destUf":                r.DestAddr.UF,
		"destCep":               r.DestAddr.ZIP,
		"destPais":              r.DestAddr.Country,
		"categoria":             r.Categoria,
		"my_categoria":          r.MyCategoria,
		"total_invoices_per_po": r.TotalInvoicesPerPO,
		"total_itens_nf":        r.TotalItensNF,
		"total_itens_po":        r.TotalItensPO,
		"valor_recebido_po":     r.ValorRecebidoPO,
		"vlNf":                  r.TotalNF,
		"unique":                r.UniqueKey,
	})
}

// RowDocuments maps a processed batch to insertable documents.
func RowDocuments(rows []pipeline.Row) []map[string]any {
	docs := make([]map[string]any, len(rows))
	for i := range rows {
		docs[i] = RowDocument(&rows[i])
	}
	return docs
}

// ServiceDocuments maps service-invoice header/value pairs to documents.
func ServiceDocuments(headers []string, rows [][]string) []map[string]any {
	docs := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		doc := make(map[string]any, len(headers))
		for i, h := range headers {
			if i < len(row) {
				doc[h] = row[i]
			} else {
				doc[h] = ""
			}
		}
		docs = append(docs, doc)
	}
	return docs
}
