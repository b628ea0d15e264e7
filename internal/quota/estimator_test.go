package quota

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestEstimateUsage_Empty(t *testing.T) {
	est := NewEstimator(newMemStore(), "photos", DefaultLimits, discardLogger())

	snap := est.EstimateUsage(context.Background())
	if snap.ObjectCount != 0 || snap.UsedBytes != 0 || snap.Percentage != 0 || snap.IsNearFull {
		t.Fatalf("Expected zero snapshot, got %+v", snap)
	}
	if snap.LimitBytes != 1073741824 {
		t.Fatalf("Expected limit 1073741824, got %d", snap.LimitBytes)
	}
}

func TestEstimateUsage_CountsOneLevelUnderNamespace(t *testing.T) {
	store := newMemStore()
	store.objects["photos/loose.jpg"] = nil
	store.objects["photos/u1/a.jpg"] = nil
	store.objects["photos/u1/b.jpg"] = nil
	store.objects["photos/u2/c.jpg"] = nil
	store.objects["photos/u2/deeper/d.jpg"] = nil
	store.objects["other/u1/e.jpg"] = nil

	est := NewEstimator(store, "photos/", DefaultLimits, discardLogger())
	snap := est.EstimateUsage(context.Background())

	if snap.ObjectCount != 4 {
		t.Fatalf("Expected 4 objects, got %d", snap.ObjectCount)
	}
	if snap.UsedBytes != 4*307200 {
		t.Fatalf("Expected %d bytes, got %d", 4*307200, snap.UsedBytes)
	}
}

func TestEstimateUsage_BucketRoot(t *testing.T) {
	store := newMemStore()
	store.objects["u1/a.jpg"] = nil
	store.objects["u2/b.jpg"] = nil

	snap := NewEstimator(store, "", DefaultLimits, discardLogger()).EstimateUsage(context.Background())
	if snap.ObjectCount != 2 {
		t.Fatalf("Expected 2 objects, got %d", snap.ObjectCount)
	}
}

func TestEstimateUsage_OverLimit(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	seed(store, catalog, "photos/", 3700, []string{"u1", "u2", "u3"}, time.Now())

	snap := NewEstimator(store, "photos", DefaultLimits, discardLogger()).EstimateUsage(context.Background())

	if snap.UsedBytes != 1136640000 {
		t.Fatalf("Expected 1136640000 bytes, got %d", snap.UsedBytes)
	}
	if snap.Percentage != 105.9 {
		t.Fatalf("Expected 105.9%%, got %v", snap.Percentage)
	}
	if !snap.IsNearFull {
		t.Fatal("Expected near full")
	}
}

func TestEstimateUsage_Watermark(t *testing.T) {
	tests := []struct {
		count    int
		pct      float64
		nearFull bool
	}{
		{3000, 85.8, false},
		{3140, 89.8, false},
		// 89.98% rounds up to 90.0 and counts as near full.
		{3145, 90.0, true},
		{3146, 90.0, true},
	}

	for _, tt := range tests {
		store := newMemStore()
		for i := 0; i < tt.count; i++ {
			store.objects[fmt.Sprintf("photos/u%d/%06d.jpg", i%5, i)] = nil
		}

		snap := NewEstimator(store, "photos", DefaultLimits, discardLogger()).EstimateUsage(context.Background())
		if snap.Percentage != tt.pct || snap.IsNearFull != tt.nearFull {
			t.Fatalf("count %d: expected %v%% nearFull=%v, got %v%% nearFull=%v",
				tt.count, tt.pct, tt.nearFull, snap.Percentage, snap.IsNearFull)
		}
	}
}

func TestEstimateUsage_ListErrorReturnsZero(t *testing.T) {
	store := newMemStore()
	store.objects["photos/u1/a.jpg"] = nil
	store.listErr = errBoom

	snap := NewEstimator(store, "photos", DefaultLimits, discardLogger()).EstimateUsage(context.Background())
	if snap.UsedBytes != 0 || snap.Percentage != 0 || snap.IsNearFull {
		t.Fatalf("Expected zeroed snapshot on list error, got %+v", snap)
	}
}
