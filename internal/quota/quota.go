// Package quota keeps uploaded job photos within a fixed storage budget.
//
// The Estimator approximates usage from an object listing, the Evictor deletes the oldest
// photos until usage is back under the low watermark, and the Gate runs both ahead of every
// upload while holding a per-namespace lease.
package quota

import (
	"context"
	"io"
	"strings"

	"github.com/gasgenie/gasgenie-service/internal/config"
	"github.com/gasgenie/gasgenie-service/internal/types/media"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ObjectStore holds the photo bytes.
type ObjectStore interface {
	// List returns the entries directly under prefix, without descending into sub-prefixes.
	List(ctx context.Context, prefix string) ([]media.StoredObject, error)
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete must treat an absent key as success.
	Delete(ctx context.Context, key string) error
}

// Catalog holds the PhotoRecord metadata.
type Catalog interface {
	InsertPhoto(ctx context.Context, rec media.PhotoRecord) (media.PhotoRecord, error)
	GetPhoto(ctx context.Context, id string) (media.PhotoRecord, error)
	// ListPhotosOldestFirst returns every record ordered by uploaded_at ascending.
	ListPhotosOldestFirst(ctx context.Context) ([]media.PhotoRecord, error)
	DeletePhoto(ctx context.Context, id string) error
}

// Locker hands out named, mutually exclusive leases. The returned func releases the lease.
type Locker interface {
	Acquire(ctx context.Context, name string) (func(context.Context) error, error)
}

// Notifier is told about evictions so owners can be informed.
type Notifier interface {
	PublishPhotosEvicted(byOwner map[string]int)
	PublishStorageNearFull(userID string, percentage float64, deletedCount int)
}

// Limits is the storage budget. Watermarks are percentages of LimitBytes.
type Limits struct {
	LimitBytes     int64
	PerObjectBytes int64
	HighWatermark  float64
	LowWatermark   int64
}

// DefaultLimits is 1024 MB, 90% trigger, 70% target, 300 KB per object.
var DefaultLimits = Limits{
	LimitBytes:     1024 * 1024 * 1024,
	PerObjectBytes: 300 * 1024,
	HighWatermark:  90,
	LowWatermark:   70,
}

// LimitsFromConfig converts the configured budget to bytes. A budget that fails
// config.Quota.Validate is returned as an error: a zero per-object size would make every
// eviction delete every record.
func LimitsFromConfig(q config.Quota) (Limits, error) {
	if err := q.Validate(); err != nil {
		return Limits{}, err
	}
	return Limits{
		LimitBytes:     q.LimitBytes(),
		PerObjectBytes: q.PerObjectBytes(),
		HighWatermark:  q.HighWatermark,
		LowWatermark:   q.LowWatermark,
	}, nil
}

// TargetBytes is the usage eviction stops at.
func (l Limits) TargetBytes() int64 {
	return l.LimitBytes * l.LowWatermark / 100
}

// NormalizeNamespace returns ns with exactly one trailing slash, or "" for the bucket root.
func NormalizeNamespace(ns string) string {
	ns = strings.Trim(ns, "/")
	if ns == "" {
		return ""
	}
	return ns + "/"
}

func leaseName(namespace string) string {
	if namespace == "" {
		return "quota:lease:root"
	}
	return "quota:lease:" + strings.TrimSuffix(namespace, "/")
}

var (
	evictionRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gasgenie_quota_eviction_runs_total",
		Help: "Number of eviction runs started",
	})

	photosEvictedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gasgenie_quota_photos_evicted_total",
		Help: "Number of photos removed by eviction",
	})

	evictionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gasgenie_quota_eviction_failures_total",
		Help: "Per-record eviction failures by the store that failed",
	}, []string{"store"})

	evictionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gasgenie_quota_eviction_duration_seconds",
		Help:    "Eviction run duration in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})

	usagePercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gasgenie_quota_usage_percent",
		Help: "Last estimated photo storage usage as a percentage of the limit",
	})

	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gasgenie_photo_uploads_total",
		Help: "Photo uploads by outcome",
	}, []string{"outcome"})
)
