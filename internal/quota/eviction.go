package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gasgenie/gasgenie-service/internal/types/media"
)

// Evictor removes the oldest photos until estimated usage is at or below the low watermark.
type Evictor struct {
	store   ObjectStore
	catalog Catalog
	limits  Limits
	logger  *slog.Logger
}

func NewEvictor(store ObjectStore, catalog Catalog, limits Limits, logger *slog.Logger) *Evictor {
	return &Evictor{
		store:   store,
		catalog: catalog,
		limits:  limits,
		logger:  logger.With(slog.String("component", "quota_evictor")),
	}
}

// RunEviction deletes records oldest first, starting from currentUsageBytes and
// subtracting the per-object estimate for every removed object. Usage is not re-queried.
//
// For each record the object goes first, then the catalog row. A failed object delete
// skips the record entirely. A failed catalog delete leaves a dangling row that is logged;
// its bytes still count as freed but the record is not counted as deleted.
func (ev *Evictor) RunEviction(ctx context.Context, currentUsageBytes int64) (media.EvictionResult, error) {
	start := time.Now()
	target := ev.limits.TargetBytes()
	result := media.EvictionResult{
		StartBytes:     currentUsageBytes,
		EndBytes:       currentUsageBytes,
		TargetBytes:    target,
		DeletedByOwner: make(map[string]int),
	}

	evictionRunsTotal.Inc()
	defer func() {
		evictionDurationSeconds.Observe(time.Since(start).Seconds())
		photosEvictedTotal.Add(float64(result.DeletedCount))
	}()

	if currentUsageBytes <= target {
		return result, nil
	}

	records, err := ev.catalog.ListPhotosOldestFirst(ctx)
	if err != nil {
		return result, fmt.Errorf("list photos for eviction: %w", err)
	}

	usage := currentUsageBytes
	for _, rec := range records {
		if usage <= target {
			break
		}
		if err := ctx.Err(); err != nil {
			result.EndBytes = usage
			return result, err
		}

		if err := ev.store.Delete(ctx, rec.StorageKey); err != nil {
			ev.logger.Error("eviction: object delete failed, skipping record",
				slog.String("photo_id", rec.ID),
				slog.String("storage_key", rec.StorageKey),
				slog.String("error", err.Error()))
			evictionFailuresTotal.WithLabelValues("object").Inc()
			result.Failed++
			continue
		}
		usage -= ev.limits.PerObjectBytes

		if err := ev.catalog.DeletePhoto(ctx, rec.ID); err != nil {
			ev.logger.Error("eviction: catalog delete failed after object removal",
				slog.String("photo_id", rec.ID),
				slog.String("storage_key", rec.StorageKey),
				slog.String("error", err.Error()))
			evictionFailuresTotal.WithLabelValues("catalog").Inc()
			result.Failed++
			continue
		}

		result.DeletedCount++
		result.DeletedByOwner[rec.UploadedBy]++
	}
	result.EndBytes = usage

	ev.logger.Info("eviction finished",
		slog.Int("deleted", result.DeletedCount),
		slog.Int("failed", result.Failed),
		slog.Int64("start_bytes", result.StartBytes),
		slog.Int64("end_bytes", result.EndBytes),
		slog.Int64("target_bytes", target),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}
