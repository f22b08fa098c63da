package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devpython86/nfe-processor/internal/common"
)

// Uploader writes processed documents to a collection in unordered batches.
type Uploader struct {
	client    *mongo.Client
	database  string
	batchSize int
	schema    map[string]any
	logger    *slog.Logger
}

func NewUploader(client *mongo.Client, cfg common.MongoConfig, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		client:    client,
		database:  cfg.Database,
		batchSize: cfg.BatchSize,
		logger:    logger,
	}
}

// WithSchema enables JSON-schema validation of the first document of each
// upload before anything is written.
func (u *Uploader) WithSchema(schema map[string]any) *Uploader {
	u.schema = schema
	return u
}

// InsertRows inserts the documents in batches. Inserts are unordered inside
// a batch; batches already committed stay committed when a later batch
// fails, and the returned count reflects what was written.
func (u *Uploader) InsertRows(ctx context.Context, collection string, docs []map[string]any) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	if u.schema != nil {
		if err := ValidateDocument(u.schema, docs[0]); err != nil {
			return 0, common.NewAppError("VALIDATION_ERROR", "document does not match collection schema", err)
		}
	}

	start := time.Now()
	coll := u.client.Database(u.database).Collection(collection)

	inserted := 0
	size := u.batchSize
	if size <= 0 {
		size = len(docs)
	}
	for from := 0; from < len(docs); from += size {
		to := from + size
		if to > len(docs) {
			to = len(docs)
		}
		batch := make([]any, 0, to-from)
		for _, d := range docs[from:to] {
			batch = append(batch, d)
		}
		res, err := coll.InsertMany(ctx, batch, options.InsertMany().SetOrdered(false))
		if res != nil {
			inserted += len(res.InsertedIDs)
		}
		if err != nil {
			return inserted, common.NewAppError("DATABASE_ERROR",
				fmt.Sprintf("insert into %s stopped at %d/%d documents", collection, inserted, len(docs)), err)
		}
	}

	u.logger.Info("store.insert.ok",
		"collection", collection,
		"documents", inserted,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return inserted, nil
}

// CollectionFields returns the field names of one sampled document, used by
// the maintenance CLI to let the operator pick the dedup field.
func (u *Uploader) CollectionFields(ctx context.Context, collection string) ([]string, error) {
	return GetCollectionFields(ctx, u.client.Database(u.database).Collection(collection))
}
