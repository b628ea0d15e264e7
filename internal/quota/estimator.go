package quota

import (
	"context"
	"log/slog"
	"math"

	"github.com/gasgenie/gasgenie-service/internal/types/media"
)

// Estimator approximates storage usage as object count times a fixed per-object size.
// Real object sizes are never read.
type Estimator struct {
	store     ObjectStore
	namespace string
	limits    Limits
	logger    *slog.Logger
}

func NewEstimator(store ObjectStore, namespace string, limits Limits, logger *slog.Logger) *Estimator {
	return &Estimator{
		store:     store,
		namespace: NormalizeNamespace(namespace),
		limits:    limits,
		logger:    logger.With(slog.String("component", "quota_estimator")),
	}
}

// EstimateUsage never fails: a listing error yields a zeroed snapshot so usage reporting
// cannot block an upload.
func (e *Estimator) EstimateUsage(ctx context.Context) media.StorageUsageSnapshot {
	count, err := e.countObjects(ctx)
	if err != nil {
		e.logger.Warn("storage usage estimation failed, reporting zero",
			slog.String("namespace", e.namespace),
			slog.String("error", err.Error()))
		return media.StorageUsageSnapshot{LimitBytes: e.limits.LimitBytes}
	}

	snap := e.snapshot(count)
	usagePercent.Set(snap.Percentage)
	return snap
}

// countObjects lists the namespace and each per-user prefix directly under it.
func (e *Estimator) countObjects(ctx context.Context) (int64, error) {
	entries, err := e.store.List(ctx, e.namespace)
	if err != nil {
		return 0, err
	}

	var count int64
	for _, entry := range entries {
		if !entry.IsPrefix {
			count++
			continue
		}

		children, err := e.store.List(ctx, entry.Key)
		if err != nil {
			return 0, err
		}
		for _, child := range children {
			if !child.IsPrefix {
				count++
			}
		}
	}

	return count, nil
}

func (e *Estimator) snapshot(count int64) media.StorageUsageSnapshot {
	used := count * e.limits.PerObjectBytes

	var pct float64
	if e.limits.LimitBytes > 0 {
		pct = math.Round(float64(used)/float64(e.limits.LimitBytes)*1000) / 10
	}

	return media.StorageUsageSnapshot{
		ObjectCount: count,
		UsedBytes:   used,
		LimitBytes:  e.limits.LimitBytes,
		Percentage:  pct,
		IsNearFull:  pct >= e.limits.HighWatermark,
	}
}
