// Command nfseproc extracts NFS-e service-invoice fields from PDF files,
// writes them to an XLSX workbook and optionally uploads them to MongoDB.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/devpython86/nfe-processor/internal/common"
	"github.com/devpython86/nfe-processor/internal/export"
	"github.com/devpython86/nfe-processor/internal/nfse"
	"github.com/devpython86/nfe-processor/internal/pdftext"
	"github.com/devpython86/nfe-processor/internal/pipeline"
	"github.com/devpython86/nfe-processor/internal/store"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		out        = flag.String("out", "", "output XLSX path (default EXPORT_DIR/notas_fiscais_extraidas.xlsx)")
		upload     = flag.Bool("upload", false, "upload extracted records to MongoDB")
		collection = flag.String("collection", "notas_servico", "target collection for -upload")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		printError("Usage: nfseproc [flags] <files or directories...>\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *out == "" {
		*out = filepath.Join(cfg.Export.OutputDir, "notas_fiscais_extraidas.xlsx")
	}

	files, err := collectFiles(flag.Args(), ".pdf")
	if err != nil {
		logger.Error("listing input files", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		printError("Error: no .pdf files found in the given paths\n")
		os.Exit(1)
	}

	var records []*nfse.Record
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("nfseproc.read.failed", "file", path, "error", err)
			continue
		}
		pages, warnings, err := pdftext.PagesFromBytes(data, logger)
		if err != nil {
			logger.Warn("nfseproc.pdf.unreadable", "file", path, "error", err)
			continue
		}
		for _, w := range warnings {
			logger.Warn("nfseproc.pdf.warning", "file", path, "detail", w)
		}
		records = append(records, nfse.Extract(pages, filepath.Base(path), logger))
	}

	records = pipeline.ProcessServiceInvoices(records, logger)

	data, err := export.WriteServiceInvoices(records, "NFS-e", logger)
	if err != nil {
		logger.Error("building workbook", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("writing workbook", "file", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("nfseproc.export.ok", "workbook", *out, "rows", len(records))

	if *upload {
		if err := uploadRecords(cfg, *collection, records, logger); err != nil {
			logger.Error("uploading records", "error", err)
			os.Exit(1)
		}
	}
}

func uploadRecords(cfg *common.Config, collection string, records []*nfse.Record, logger *slog.Logger) error {
	if err := cfg.ValidateForUpload(); err != nil {
		return err
	}
	ctx := context.Background()

	client, err := store.Connect(ctx, cfg.Mongo, logger)
	if err != nil {
		return err
	}
	defer store.Close(ctx, client, logger)

	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = rec.Row()
	}
	uploader := store.NewUploader(client, cfg.Mongo, logger)
	_, err = uploader.InsertRows(ctx, collection, store.ServiceDocuments(nfse.Header, rows))
	return err
}

func collectFiles(args []string, ext string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if strings.EqualFold(filepath.Ext(arg), ext) {
				files = append(files, arg)
			}
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ext) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
