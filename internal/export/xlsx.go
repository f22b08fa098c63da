// Package export produces the XLSX workbooks and the reloadable binary
// snapshot of a processed batch.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/devpython86/nfe-processor/internal/nfse"
	"github.com/devpython86/nfe-processor/internal/pipeline"
)

// lineItemHeaders is the fixed column order of the goods-invoice sheet. The
// Portuguese names match the established table layout the downstream
// consumers already read.
var lineItemHeaders = []string{
	"nNf",
	"dtEmi",
	"itemNf",
	"nomeMaterial",
	"ncm",
	"qtd",
	"und",
	"vlUnProd",
	"vlTotProd",
	"vlTotalNf",
	"vlFrete",
	"natOp",
	"serie",
	"infAdic",
	"po",
	"dVenc",
	"fatura",
	"duplicata",
	"vlOriginal",
	"vlPago",
	"dataImportacao",
	"usuario",
	"dataSaida",
	"chNfe",
	"cfop",
	"emitCnpj",
	"emitNome",
	"emitLogradouro",
	"emitNumero",
	"emitComplemento",
	"emitBairro",
	"emitMunicipio",
	"emitUf",
	"emitCep",
	"emitPais",
	"destCnpj",
	"destNome",
	"destLogradouro",
	"destNumero",
	"destComplemento",
	"destBairro",
	"destMunicipio",
	"destUf",
	"destCep",
	"destPais",
	"categoria",
	"my_categoria",
	"total_invoices_per_po",
	"total_itens_nf",
	"total_itens_po",
	"valor_recebido_po",
	"vlNf",
	"unique",
}

func lineItemCells(r *pipeline.Row) []any {
	return []any{
		r.NNf,
		r.DtEmi,
		r.ItemSeq,
		r.Description,
		r.NCM,
		floatCell(r.Qtd),
		r.Unit,
		floatCell(r.VlUnProd),
		floatCell(r.VlTotProd),
		floatCell(r.VlTotalNf),
		r.Freight,
		r.NatOp,
		r.Serie,
		r.InfAdic,
		r.PO,
		r.DVenc,
		r.Invoice,
		r.Installment,
		floatCell(r.VlOriginal),
		floatCell(r.VlPago),
		r.ImportDate,
		r.User,
		r.ExitDate,
		r.ChNFe,
		r.CFOP,
		r.EmitCNPJ,
		r.EmitNome,
		r.EmitAddr.Street,
		r.EmitAddr.Number,
		r.EmitAddr.Complement,
		r.EmitAddr.District,
		r.EmitAddr.City,
		r.EmitAddr.UF,
		r.EmitAddr.ZIP,
		r.EmitAddr.Country,
		r.DestCNPJ,
		r.DestNome,
		r.DestAddr.Street,
		r.DestAddr.Number,
		r.DestAddr.Complement,
		r.DestAddr.District,
		r.DestAddr.City,
		r.DestAddr.UF,
		r.DestAddr.ZIP,
		r.DestAddr.Country,
		r.Categoria,
		r.MyCategoria,
		r.TotalInvoicesPerPO,
		r.TotalItensNF,
		r.TotalItensPO,
		r.ValorRecebidoPO,
		r.TotalNF,
		r.UniqueKey,
	}
}

// floatCell keeps absent values as empty cells instead of zeros.
func floatCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

// WriteLineItems returns an XLSX workbook with one sheet holding the
// processed goods-invoice rows in the fixed column order.
func WriteLineItems(rows []pipeline.Row, sheet string, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if sheet == "" {
		sheet = "Invoices"
	}
	start := time.Now()

	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range lineItemHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for n := range rows {
		for col, v := range lineItemCells(&rows[n]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, n+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "B", 14) // invoice number, issue date
	_ = f.SetColWidth(sheet, "D", "D", 48) // material description
	_ = f.SetColWidth(sheet, "X", "X", 50) // document key

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"sheet", sheet,
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteServiceInvoices returns an XLSX workbook with one row per service
// invoice, columns per nfse.Header.
func WriteServiceInvoices(records []*nfse.Record, sheet string, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if sheet == "" {
		sheet = "NFS-e"
	}
	start := time.Now()

	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range nfse.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for n, rec := range records {
		for col, v := range rec.Row() {
			cell, _ := excelize.CoordinatesToCellName(col+1, n+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "D", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"sheet", sheet,
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
