// Command dedupe removes duplicate documents from a collection, keeping the
// first document per value of the chosen field.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/devpython86/nfe-processor/internal/common"
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
		collection = flag.String("collection", "", "collection to deduplicate (required)")
		field      = flag.String("field", "unique", "field whose values define duplicates")
		streaming  = flag.Bool("streaming", false, "single-pass cursor mode for collections too large for memory")
	)
	flag.Parse()

	if *collection == "" {
		printError("Error: -collection is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.ValidateForUpload(); err != nil {
		logger.Error("configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := store.Connect(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Error("connecting", "error", err)
		os.Exit(1)
	}
	defer store.Close(ctx, client, logger)

	coll := client.Database(cfg.Mongo.Database).Collection(*collection)

	fields, err := store.GetCollectionFields(ctx, coll)
	if err != nil {
		logger.Error("sampling collection", "error", err)
		os.Exit(1)
	}
	if len(fields) == 0 {
		logger.Info("dedupe.empty", "collection", *collection)
		return
	}
	if !contains(fields, *field) {
		printError("Error: field %q not found; available: %s\n", *field, strings.Join(fields, ", "))
		os.Exit(1)
	}

	var removed int64
	if *streaming {
		removed, err = store.RemoveDuplicatesStreaming(ctx, coll, *field, logger)
	} else {
		removed, err = store.RemoveDuplicatesFast(ctx, coll, *field, logger)
	}
	if err != nil {
		logger.Error("removing duplicates", "error", err)
		os.Exit(1)
	}
	logger.Info("dedupe.done", "collection", *collection, "field", *field, "removed", removed)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
