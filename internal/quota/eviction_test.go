package quota

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var evictionBase = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

func TestRunEviction_OverLimitScenario(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	seed(store, catalog, "photos/", 3700, []string{"u1", "u2"}, evictionBase)
	ev := NewEvictor(store, catalog, DefaultLimits, discardLogger())

	res, err := ev.RunEviction(context.Background(), 3700*307200)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if res.DeletedCount != 1254 {
		t.Fatalf("Expected 1254 deletions, got %d", res.DeletedCount)
	}
	if catalog.count() != 2446 || store.count() != 2446 {
		t.Fatalf("Expected 2446 photos left, got catalog=%d store=%d", catalog.count(), store.count())
	}
	if res.TargetBytes != 751619276 {
		t.Fatalf("Expected target 751619276, got %d", res.TargetBytes)
	}
	if res.EndBytes > res.TargetBytes {
		t.Fatalf("Expected end usage %d at or below target %d", res.EndBytes, res.TargetBytes)
	}
	if res.DeletedByOwner["u1"]+res.DeletedByOwner["u2"] != 1254 {
		t.Fatalf("Per-owner counts do not add up: %v", res.DeletedByOwner)
	}
}

func TestRunEviction_OldestFirst(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	seed(store, catalog, "photos/", 10, []string{"u1"}, evictionBase)

	limits := Limits{LimitBytes: 1000, PerObjectBytes: 100, HighWatermark: 90, LowWatermark: 70}
	ev := NewEvictor(store, catalog, limits, discardLogger())

	res, err := ev.RunEviction(context.Background(), 1000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.DeletedCount != 3 {
		t.Fatalf("Expected 3 deletions, got %d", res.DeletedCount)
	}

	want := []string{"photos/u1/000000.jpg", "photos/u1/000001.jpg", "photos/u1/000002.jpg"}
	if strings.Join(store.deletes, ",") != strings.Join(want, ",") {
		t.Fatalf("Expected deletes %v, got %v", want, store.deletes)
	}
}

func TestRunEviction_AtOrBelowTargetDoesNothing(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	seed(store, catalog, "photos/", 5, []string{"u1"}, evictionBase)
	ev := NewEvictor(store, catalog, DefaultLimits, discardLogger())

	res, err := ev.RunEviction(context.Background(), DefaultLimits.TargetBytes())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.DeletedCount != 0 || len(store.deletes) != 0 {
		t.Fatalf("Expected no deletions, got %d", res.DeletedCount)
	}
}

func TestRunEviction_NoRecords(t *testing.T) {
	ev := NewEvictor(newMemStore(), newMemCatalog(), DefaultLimits, discardLogger())

	res, err := ev.RunEviction(context.Background(), DefaultLimits.LimitBytes)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.DeletedCount != 0 {
		t.Fatalf("Expected 0 deletions, got %d", res.DeletedCount)
	}
}

func TestRunEviction_RunsOutOfRecords(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	seed(store, catalog, "photos/", 2, []string{"u1"}, evictionBase)
	ev := NewEvictor(store, catalog, DefaultLimits, discardLogger())

	// Estimated usage far above what the catalog knows about.
	res, err := ev.RunEviction(context.Background(), DefaultLimits.LimitBytes)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.DeletedCount != 2 || catalog.count() != 0 {
		t.Fatalf("Expected every record removed, deleted=%d left=%d", res.DeletedCount, catalog.count())
	}
}

func TestRunEviction_ObjectDeleteFailureSkipsRecord(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	seed(store, catalog, "photos/", 10, []string{"u1"}, evictionBase)
	store.deleteErr["photos/u1/000000.jpg"] = errBoom

	limits := Limits{LimitBytes: 1000, PerObjectBytes: 100, HighWatermark: 90, LowWatermark: 70}
	ev := NewEvictor(store, catalog, limits, discardLogger())

	res, err := ev.RunEviction(context.Background(), 1000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Failed != 1 || res.DeletedCount != 3 {
		t.Fatalf("Expected 1 failure and 3 deletions, got failed=%d deleted=%d", res.Failed, res.DeletedCount)
	}
	if _, err := catalog.GetPhoto(context.Background(), "1"); err != nil {
		t.Fatal("Record whose object could not be deleted must stay in the catalog")
	}
	if !store.has("photos/u1/000000.jpg") {
		t.Fatal("Expected failed object to remain")
	}
	if store.has("photos/u1/000003.jpg") {
		t.Fatal("Expected the next oldest photo to be evicted instead")
	}
}

func TestRunEviction_CatalogDeleteFailureStillFreesBytes(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	seed(store, catalog, "photos/", 10, []string{"u1"}, evictionBase)
	catalog.deleteErr["1"] = errBoom

	limits := Limits{LimitBytes: 1000, PerObjectBytes: 100, HighWatermark: 90, LowWatermark: 70}
	ev := NewEvictor(store, catalog, limits, discardLogger())

	res, err := ev.RunEviction(context.Background(), 1000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Failed != 1 || res.DeletedCount != 2 {
		t.Fatalf("Expected 1 failure and 2 deletions, got failed=%d deleted=%d", res.Failed, res.DeletedCount)
	}
	if res.EndBytes != 700 {
		t.Fatalf("Expected 700 bytes after eviction, got %d", res.EndBytes)
	}
	if store.has("photos/u1/000000.jpg") {
		t.Fatal("Expected object to be gone even though its record remains")
	}
}

func TestRunEviction_Idempotent(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	seed(store, catalog, "photos/", 3700, []string{"u1"}, evictionBase)
	ev := NewEvictor(store, catalog, DefaultLimits, discardLogger())
	est := NewEstimator(store, "photos", DefaultLimits, discardLogger())
	ctx := context.Background()

	if _, err := ev.RunEviction(ctx, est.EstimateUsage(ctx).UsedBytes); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	snap := est.EstimateUsage(ctx)
	res, err := ev.RunEviction(ctx, snap.UsedBytes)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.DeletedCount != 0 {
		t.Fatalf("Second run should delete nothing, deleted %d", res.DeletedCount)
	}
	if snap.IsNearFull {
		t.Fatalf("Expected usage below the high watermark after eviction, got %v%%", snap.Percentage)
	}
}

func TestRunEviction_ListFailure(t *testing.T) {
	catalog := newMemCatalog()
	catalog.listErr = errBoom
	ev := NewEvictor(newMemStore(), catalog, DefaultLimits, discardLogger())

	_, err := ev.RunEviction(context.Background(), DefaultLimits.LimitBytes)
	if !errors.Is(err, errBoom) {
		t.Fatalf("Expected list error, got %v", err)
	}
}

func TestRunEviction_ContextCancelled(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	seed(store, catalog, "photos/", 10, []string{"u1"}, evictionBase)
	ev := NewEvictor(store, catalog, DefaultLimits, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := ev.RunEviction(ctx, DefaultLimits.LimitBytes)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if res.DeletedCount != 0 {
		t.Fatalf("Expected no deletions after cancellation, got %d", res.DeletedCount)
	}
}
