package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ElmaP103/buenro/internal/domain"
)

const collectionName = "properties"

type Repo struct{ coll *mongo.Collection }

func New(db *mongo.Database) *Repo { return &Repo{coll: db.Collection(collectionName)} }

// EnsureIndexes creates the single and compound indexes the query layer
// leans on. Creation is idempotent.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "city", Value: 1}}},
		{Keys: bson.D{{Key: "isAvailable", Value: 1}}},
		{Keys: bson.D{{Key: "pricePerNight", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "isAvailable", Value: 1}}},
		{Keys: bson.D{{Key: "pricePerNight", Value: 1}, {Key: "isAvailable", Value: 1}}},
		{Keys: bson.D{{Key: "country", Value: 1}, {Key: "city", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, models)
	return err
}

// FindAll runs the count and the page fetch against the same filter. The two
// reads are not a snapshot; a concurrent ingestion run can move the ground
// under them.
func (r *Repo) FindAll(ctx context.Context, f domain.PropertyFilter, skip, limit int) (domain.PropertyPage, error) {
	filter := BuildFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return domain.PropertyPage{}, fmt.Errorf("count properties: %w", err)
	}

	opts := options.Find().SetSkip(int64(skip)).SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return domain.PropertyPage{}, fmt.Errorf("find properties: %w", err)
	}
	defer cur.Close(ctx)

	var data []domain.Property
	if err := cur.All(ctx, &data); err != nil {
		return domain.PropertyPage{}, fmt.Errorf("decode properties: %w", err)
	}
	return domain.PropertyPage{Data: data, Total: total}, nil
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *Repo) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}
	return nil
}

// InsertMany bulk-appends a full generation of records, stamping write-time
// timestamps. The driver's InsertMany is not atomic: a mid-batch failure
// leaves the documents before it in place.
func (r *Repo) InsertMany(ctx context.Context, props []domain.Property) error {
	if len(props) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]any, len(props))
	for i, p := range props {
		p.CreatedAt = now
		p.UpdatedAt = now
		docs[i] = p
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}
	return nil
}
