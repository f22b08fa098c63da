// Command nfeproc processes NF-e goods-invoice XML files into the normalized
// line-item table, writing an XLSX workbook plus a reloadable snapshot, and
// optionally uploading the rows to MongoDB.
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
	"github.com/devpython86/nfe-processor/internal/nfe"
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
		out        = flag.String("out", "", "output XLSX path (default EXPORT_DIR/processed_invoices.xlsx)")
		upload     = flag.Bool("upload", false, "upload processed rows to MongoDB")
		collection = flag.String("collection", "notas_fiscais", "target collection for -upload")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		printError("Usage: nfeproc [flags] <files or directories...>\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *out == "" {
		*out = filepath.Join(cfg.Export.OutputDir, "processed_invoices.xlsx")
	}

	files, err := collectFiles(flag.Args(), ".xml")
	if err != nil {
		logger.Error("listing input files", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		printError("Error: no .xml files found in the given paths\n")
		os.Exit(1)
	}

	batch := pipeline.NewBatch()
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			batch.Warn(fmt.Sprintf("%s: %v", path, err))
			logger.Warn("nfeproc.read.failed", "file", path, "error", err)
			continue
		}
		items, err := nfe.Parse(data)
		if err != nil {
			batch.Warn(fmt.Sprintf("%s: %v", path, err))
			logger.Warn("nfeproc.parse.failed", "file", path, "error", err)
			continue
		}
		batch.Add(items)
	}

	pipeline.Process(batch, logger)
	logger.Info("nfeproc.batch", "batch_id", batch.ID.String(), "summary", batch.Summary())
	for _, w := range batch.Warnings {
		logger.Warn("nfeproc.warning", "detail", w)
	}

	data, err := export.WriteLineItems(batch.Rows, cfg.Export.SheetName, logger)
	if err != nil {
		logger.Error("building workbook", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("writing workbook", "file", *out, "error", err)
		os.Exit(1)
	}

	snapPath := strings.TrimSuffix(*out, filepath.Ext(*out)) + ".snap"
	if err := export.WriteSnapshot(snapPath, batch.Rows); err != nil {
		logger.Error("writing snapshot", "file", snapPath, "error", err)
		os.Exit(1)
	}
	logger.Info("nfeproc.export.ok", "workbook", *out, "snapshot", snapPath, "rows", len(batch.Rows))

	if *upload {
		if err := uploadRows(cfg, *collection, batch.Rows, logger); err != nil {
			logger.Error("uploading rows", "error", err)
			os.Exit(1)
		}
	}
}

func uploadRows(cfg *common.Config, collection string, rows []pipeline.Row, logger *slog.Logger) error {
	if err := cfg.ValidateForUpload(); err != nil {
		return err
	}
	ctx := context.Background()

	client, err := store.Connect(ctx, cfg.Mongo, logger)
	if err != nil {
		return err
	}
	defer store.Close(ctx, client, logger)

	uploader := store.NewUploader(client, cfg.Mongo, logger).WithSchema(store.LineItemSchema)
	_, err = uploader.InsertRows(ctx, collection, store.RowDocuments(rows))
	return err
}

// collectFiles expands files and directories into the matching files,
// walking directories recursively.
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
