package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RemoveDuplicatesFast loads every (_id, field) pair into memory, keeps the
// first document per field value and deletes the rest in bulk. Fastest when
// the collection fits comfortably in memory.
func RemoveDuplicatesFast(ctx context.Context, coll *mongo.Collection, field string, logger *slog.Logger) (int64, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	proj := options.Find().SetProjection(bson.D{{Key: field, Value: 1}})
	cur, err := coll.Find(ctx, bson.D{}, proj)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)

	seen := make(map[string]struct{})
	var dupIDs []primitive.ObjectID
	for cur.Next(ctx) {
		raw := cur.Current
		key := fmt.Sprintf("%v", raw.Lookup(field))
		if _, dup := seen[key]; dup {
			var oid primitive.ObjectID
			if err := raw.Lookup("_id").Unmarshal(&oid); err != nil {
				return 0, fmt.Errorf("decode _id: %w", err)
			}
			dupIDs = append(dupIDs, oid)
			continue
		}
		seen[key] = struct{}{}
	}
	if err := cur.Err(); err != nil {
		return 0, fmt.Errorf("scan %s: %w", coll.Name(), err)
	}

	var removed int64
	for from := 0; from < len(dupIDs); from += 1000 {
		to := from + 1000
		if to > len(dupIDs) {
			to = len(dupIDs)
		}
		res, err := coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": dupIDs[from:to]}})
		if res != nil {
			removed += res.DeletedCount
		}
		if err != nil {
			return removed, fmt.Errorf("delete duplicates: %w", err)
		}
	}

	logger.Info("store.dedupe.ok",
		"collection", coll.Name(),
		"field", field,
		"removed", removed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return removed, nil
}

// RemoveDuplicatesStreaming walks the collection once with a cursor and
// deletes duplicates one by one, never holding more than the seen-value set
// in memory. An index on the field keeps the scan ordered and cheap.
func RemoveDuplicatesStreaming(ctx context.Context, coll *mongo.Collection, field string, logger *slog.Logger) (int64, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: field, Value: 1}},
	})
	if err != nil {
		return 0, fmt.Errorf("create index on %s: %w", field, err)
	}

	opts := options.Find().
		SetProjection(bson.D{{Key: field, Value: 1}}).
		SetSort(bson.D{{Key: field, Value: 1}})
	cur, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)

	seen := make(map[string]struct{})
	var removed int64
	for cur.Next(ctx) {
		raw := cur.Current
		id := raw.Lookup("_id")
		key := fmt.Sprintf("%v", raw.Lookup(field))
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			continue
		}
		var oid primitive.ObjectID
		if err := id.Unmarshal(&oid); err != nil {
			return removed, fmt.Errorf("decode _id: %w", err)
		}
		res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
		if res != nil {
			removed += res.DeletedCount
		}
		if err != nil {
			return removed, fmt.Errorf("delete duplicate: %w", err)
		}
	}
	if err := cur.Err(); err != nil {
		return removed, fmt.Errorf("scan %s: %w", coll.Name(), err)
	}

	logger.Info("store.dedupe.ok",
		"collection", coll.Name(),
		"field", field,
		"removed", removed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return removed, nil
}

// GetCollectionFields samples one document and returns its field names
// sorted, so maintenance tooling can present the choices.
func GetCollectionFields(ctx context.Context, coll *mongo.Collection) ([]string, error) {
	var doc bson.M
	err := coll.FindOne(ctx, bson.D{}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", coll.Name(), err)
	}
	fields := make([]string, 0, len(doc))
	for k := range doc {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields, nil
}
