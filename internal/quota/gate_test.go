package quota

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gasgenie/gasgenie-service/internal/types/media"
)

func newTestGate(store *memStore, catalog *memCatalog, locker Locker) *Gate {
	g := NewGate(store, catalog, locker, DefaultLimits, "photos", discardLogger())
	g.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }
	return g
}

func upload(owner string) UploadParams {
	return UploadParams{
		OwnerID:     owner,
		Reader:      strings.NewReader("jpeg-bytes"),
		Size:        10,
		ContentType: "image/jpeg",
		Extension:   ".jpg",
		Metadata:    media.PhotoMetadata{Description: "  gas meter  ", JobID: "job-9"},
	}
}

func TestUpload_BelowWatermarkNoEviction(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	seed(store, catalog, "photos/", 100, []string{"u1"}, evictionBase)
	locker := &fakeLocker{}
	g := newTestGate(store, catalog, locker)

	rec, err := g.Upload(context.Background(), upload("u2"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(store.deletes) != 0 {
		t.Fatalf("Expected no eviction, got %d deletes", len(store.deletes))
	}
	if !strings.HasPrefix(rec.StorageKey, "photos/u2/1748772000000-") || !strings.HasSuffix(rec.StorageKey, ".jpg") {
		t.Fatalf("Unexpected storage key %q", rec.StorageKey)
	}
	if rec.Description != "gas meter" || rec.JobID != "job-9" {
		t.Fatalf("Metadata not carried onto record: %+v", rec)
	}
	if rec.URL != "http://store/"+rec.StorageKey {
		t.Fatalf("Unexpected URL %q", rec.URL)
	}
	if locker.acquired != 1 || locker.released != 1 {
		t.Fatalf("Expected lease acquired and released once, got %d/%d", locker.acquired, locker.released)
	}
}

func TestUpload_EvictsBeforeAdmitting(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	seed(store, catalog, "photos/", 3700, []string{"u1", "u3"}, evictionBase)
	notifier := &recordingNotifier{}
	g := newTestGate(store, catalog, &fakeLocker{})
	g.SetNotifier(notifier)

	rec, err := g.Upload(context.Background(), upload("u2"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if catalog.count() != 2447 {
		t.Fatalf("Expected 2446 survivors plus the new photo, got %d", catalog.count())
	}
	if !store.has(rec.StorageKey) {
		t.Fatal("New upload missing from store")
	}
	if len(notifier.evicted) != 1 {
		t.Fatalf("Expected one eviction notification, got %d", len(notifier.evicted))
	}
	if len(notifier.nearFull) != 1 || notifier.nearFull[0] != "u2" {
		t.Fatalf("Expected near-full warning for uploader, got %v", notifier.nearFull)
	}

	snap := g.Estimator().EstimateUsage(context.Background())
	if snap.IsNearFull {
		t.Fatalf("Expected usage below high watermark after upload, got %v%%", snap.Percentage)
	}
}

func TestUpload_PutFailureLeavesNoRecord(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	store.putErr = errBoom
	g := newTestGate(store, catalog, &fakeLocker{})

	_, err := g.Upload(context.Background(), upload("u1"))
	if !errors.Is(err, ErrObjectWrite) || !errors.Is(err, errBoom) {
		t.Fatalf("Expected ErrObjectWrite wrapping cause, got %v", err)
	}
	if catalog.count() != 0 {
		t.Fatal("Catalog record created for failed upload")
	}
}

func TestUpload_CatalogFailure(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	catalog.insertErr = errBoom
	g := newTestGate(store, catalog, &fakeLocker{})

	_, err := g.Upload(context.Background(), upload("u1"))
	if !errors.Is(err, ErrCatalogWrite) {
		t.Fatalf("Expected ErrCatalogWrite, got %v", err)
	}
	// The object is left behind without a record.
	if store.count() != 1 {
		t.Fatalf("Expected orphaned object in store, got %d objects", store.count())
	}
}

func TestUpload_LeaseBusyStillUploads(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	seed(store, catalog, "photos/", 3700, []string{"u1"}, evictionBase)
	g := newTestGate(store, catalog, &fakeLocker{err: errBoom})

	if _, err := g.Upload(context.Background(), upload("u2")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(store.deletes) != 0 {
		t.Fatal("Eviction must not run without the lease")
	}
	if catalog.count() != 3701 {
		t.Fatalf("Expected 3701 records, got %d", catalog.count())
	}
}

func TestUpload_UniqueKeysWithinSameMillisecond(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	g := newTestGate(store, catalog, nil)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		rec, err := g.Upload(context.Background(), upload("u1"))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if seen[rec.StorageKey] {
			t.Fatalf("Duplicate storage key %q", rec.StorageKey)
		}
		seen[rec.StorageKey] = true
	}
}

func TestEnforceQuota(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	seed(store, catalog, "photos/", 3700, []string{"u1"}, evictionBase)
	g := newTestGate(store, catalog, &fakeLocker{})

	res, err := g.EnforceQuota(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Eviction == nil || res.Eviction.DeletedCount != 1254 {
		t.Fatalf("Expected 1254 evictions, got %+v", res.Eviction)
	}
	if res.Snapshot.Percentage != 105.9 {
		t.Fatalf("Expected snapshot taken before eviction, got %v%%", res.Snapshot.Percentage)
	}
}

func TestEnforceQuota_LeaseBusy(t *testing.T) {
	g := newTestGate(newMemStore(), newMemCatalog(), &fakeLocker{err: errBoom})

	if _, err := g.EnforceQuota(context.Background()); !errors.Is(err, ErrLeaseBusy) {
		t.Fatalf("Expected ErrLeaseBusy, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store, catalog := newMemStore(), newMemCatalog()
	seed(store, catalog, "photos/", 2, []string{"u1"}, evictionBase)
	g := newTestGate(store, catalog, nil)
	ctx := context.Background()

	if err := g.Delete(ctx, "intruder", "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for another owner, got %v", err)
	}
	if err := g.Delete(ctx, "u1", "404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for missing photo, got %v", err)
	}

	if err := g.Delete(ctx, "u1", "1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if store.has("photos/u1/000000.jpg") || catalog.count() != 1 {
		t.Fatal("Expected object and record removed")
	}
}

func TestLeaseName(t *testing.T) {
	if got := leaseName(NormalizeNamespace("/photos/")); got != "quota:lease:photos" {
		t.Fatalf("Unexpected lease name %q", got)
	}
	if got := leaseName(NormalizeNamespace("")); got != "quota:lease:root" {
		t.Fatalf("Unexpected lease name %q", got)
	}
}
