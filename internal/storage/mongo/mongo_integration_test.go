//go:build integration || !unit

package mongo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ElmaP103/buenro/internal/domain"
	mongorepo "github.com/ElmaP103/buenro/internal/storage/mongo"
)

func startMongo(t *testing.T) *mongo.Database {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7.0",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mongo: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	uri := fmt.Sprintf("mongodb://127.0.0.1:%s", resource.GetPort("27017/tcp"))
	var client *mongo.Client
	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var e error
		client, e = mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if e != nil {
			return e
		}
		return client.Ping(ctx, nil)
	}); err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return client.Database("property_test")
}

func seedProperties() []domain.Property {
	seg := func(s string) *string { return &s }
	props := []domain.Property{
		{ID: "1", City: "Paris", Country: pstr("France"), IsAvailable: true, PricePerNight: 120, Source: domain.Source1},
		{ID: "2", City: "PARIS", Country: pstr("France"), IsAvailable: false, PricePerNight: 80, Source: domain.Source1},
		{ID: "3", City: "sparing", IsAvailable: true, PricePerNight: 150, Source: domain.Source2, PriceSegment: seg("medium")},
		{ID: "4", City: "Madrid", Country: pstr("Spain"), IsAvailable: true, PricePerNight: 200, Source: domain.Source2, PriceSegment: seg("high")},
		{ID: "5", City: "Madrid", Country: pstr("Spain"), IsAvailable: false, PricePerNight: 60, Source: domain.Source2, PriceSegment: seg("low")},
	}
	// pad out so pagination has something to page over
	for i := 6; i <= 15; i++ {
		props = append(props, domain.Property{
			ID:            fmt.Sprintf("%d", i),
			City:          "Lisbon",
			IsAvailable:   true,
			PricePerNight: float64(100 + i),
			Source:        domain.Source1,
		})
	}
	return props
}

func TestRepo_EndToEnd(t *testing.T) {
	db := startMongo(t)
	repo := mongorepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	props := seedProperties()
	if err := repo.InsertMany(ctx, props); err != nil {
		t.Fatalf("InsertMany: %v", err)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != int64(len(props)) {
		t.Fatalf("count: got %d, want %d", n, len(props))
	}

	t.Run("city substring is case-insensitive", func(t *testing.T) {
		page, err := repo.FindAll(ctx, domain.PropertyFilter{City: pstr("par")}, 0, 10)
		if err != nil {
			t.Fatalf("FindAll: %v", err)
		}
		// Paris, PARIS, and sparing all contain "par"
		if page.Total != 3 || len(page.Data) != 3 {
			t.Fatalf("got total=%d n=%d, want 3/3", page.Total, len(page.Data))
		}
		for _, p := range page.Data {
			if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
				t.Fatalf("timestamps not set on write: %+v", p)
			}
		}
	})

	t.Run("closed price range", func(t *testing.T) {
		page, err := repo.FindAll(ctx, domain.PropertyFilter{MinPrice: pfloat(100), MaxPrice: pfloat(200)}, 0, 50)
		if err != nil {
			t.Fatalf("FindAll: %v", err)
		}
		for _, p := range page.Data {
			if p.PricePerNight < 100 || p.PricePerNight > 200 {
				t.Fatalf("record outside range: %+v", p)
			}
		}
		if page.Total != 13 {
			t.Fatalf("range total: got %d, want 13", page.Total)
		}
	})

	t.Run("lower bound only", func(t *testing.T) {
		page, err := repo.FindAll(ctx, domain.PropertyFilter{MinPrice: pfloat(100)}, 0, 50)
		if err != nil {
			t.Fatalf("FindAll: %v", err)
		}
		if page.Total != 13 {
			t.Fatalf("min-only total: got %d, want 13", page.Total)
		}
	})

	t.Run("availability and source exact match", func(t *testing.T) {
		page, err := repo.FindAll(ctx, domain.PropertyFilter{
			IsAvailable: pbool(false),
			Source:      pstr(domain.Source2),
		}, 0, 10)
		if err != nil {
			t.Fatalf("FindAll: %v", err)
		}
		if page.Total != 1 || page.Data[0].ID != "5" {
			t.Fatalf("unexpected match set: %+v", page)
		}
	})

	t.Run("pagination slices by store order and keeps full total", func(t *testing.T) {
		all, err := repo.FindAll(ctx, domain.PropertyFilter{}, 0, 100)
		if err != nil {
			t.Fatalf("FindAll: %v", err)
		}
		page2, err := repo.FindAll(ctx, domain.PropertyFilter{}, 5, 5)
		if err != nil {
			t.Fatalf("FindAll: %v", err)
		}
		if page2.Total != int64(len(props)) {
			t.Fatalf("total must ignore pagination: got %d", page2.Total)
		}
		if len(page2.Data) != 5 {
			t.Fatalf("page size: got %d", len(page2.Data))
		}
		for i, p := range page2.Data {
			if p.ID != all.Data[5+i].ID {
				t.Fatalf("page 2 record %d: got %s, want %s", i, p.ID, all.Data[5+i].ID)
			}
		}
	})

	t.Run("duplicate ids coexist", func(t *testing.T) {
		dup := []domain.Property{
			{ID: "1", City: "Paris", IsAvailable: true, PricePerNight: 1, Source: domain.Source2},
		}
		if err := repo.InsertMany(ctx, dup); err != nil {
			t.Fatalf("duplicate source id must insert as its own document: %v", err)
		}
	})

	t.Run("delete all", func(t *testing.T) {
		if err := repo.DeleteAll(ctx); err != nil {
			t.Fatalf("DeleteAll: %v", err)
		}
		n, err := repo.Count(ctx)
		if err != nil || n != 0 {
			t.Fatalf("count after delete: n=%d err=%v", n, err)
		}
	})
}
