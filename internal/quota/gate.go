package quota

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gasgenie/gasgenie-service/internal/storage"
	"github.com/gasgenie/gasgenie-service/internal/types/media"
	"github.com/google/uuid"
)

var (
	ErrObjectWrite  = errors.New("photo upload failed")
	ErrCatalogWrite = errors.New("photo record could not be saved")
	ErrNotFound     = errors.New("photo not found")
	ErrLeaseBusy    = errors.New("quota lease not acquired")
)

// UploadParams describes one photo being admitted.
type UploadParams struct {
	OwnerID     string
	Reader      io.Reader
	Size        int64
	ContentType string
	Extension   string
	Metadata    media.PhotoMetadata
}

// EnforceResult is what one quota check did.
type EnforceResult struct {
	Snapshot media.StorageUsageSnapshot
	Eviction *media.EvictionResult
}

// Gate admits uploads, evicting first when usage is near the limit.
type Gate struct {
	store     ObjectStore
	catalog   Catalog
	locker    Locker
	notifier  Notifier
	estimator *Estimator
	evictor   *Evictor
	namespace string
	logger    *slog.Logger

	now    func() time.Time
	suffix func() string
}

func NewGate(store ObjectStore, catalog Catalog, locker Locker, limits Limits, namespace string, logger *slog.Logger) *Gate {
	return &Gate{
		store:     store,
		catalog:   catalog,
		locker:    locker,
		estimator: NewEstimator(store, namespace, limits, logger),
		evictor:   NewEvictor(store, catalog, limits, logger),
		namespace: NormalizeNamespace(namespace),
		logger:    logger.With(slog.String("component", "upload_gate")),
		now:       time.Now,
		suffix:    randomSuffix,
	}
}

// SetNotifier attaches an eviction notifier. Optional.
func (g *Gate) SetNotifier(n Notifier) {
	g.notifier = n
}

func (g *Gate) Estimator() *Estimator {
	return g.estimator
}

// Upload runs the quota check and, if needed, eviction under the namespace lease, then
// writes the object and creates its catalog record. The lease is held until the upload
// finishes. If the lease cannot be had in time the upload proceeds without eviction.
func (g *Gate) Upload(ctx context.Context, p UploadParams) (media.PhotoRecord, error) {
	release, err := g.acquire(ctx)
	if err != nil {
		g.logger.Warn("uploading without quota check",
			slog.String("user_id", p.OwnerID),
			slog.String("error", err.Error()))
	} else {
		defer release()
		// A client hanging up must not abandon an eviction half way.
		res := g.enforce(context.WithoutCancel(ctx))
		if res.Eviction != nil && g.notifier != nil {
			g.notifier.PublishStorageNearFull(p.OwnerID, res.Snapshot.Percentage, res.Eviction.DeletedCount)
		}
	}

	key := g.objectKey(p.OwnerID, p.Extension)
	url, err := g.store.Put(ctx, key, p.Reader, p.Size, p.ContentType)
	if err != nil {
		uploadsTotal.WithLabelValues("object_error").Inc()
		return media.PhotoRecord{}, fmt.Errorf("%w: %w", ErrObjectWrite, err)
	}

	rec := media.PhotoRecord{
		StorageKey:  key,
		URL:         url,
		ContentType: p.ContentType,
		UploadedBy:  p.OwnerID,
		Description: strings.TrimSpace(p.Metadata.Description),
		UploadedAt:  g.now().UTC(),
		JobID:       p.Metadata.JobID,
	}

	saved, err := g.catalog.InsertPhoto(ctx, rec)
	if err != nil {
		uploadsTotal.WithLabelValues("catalog_error").Inc()
		g.logger.Error("catalog insert failed, object left without record",
			slog.String("storage_key", key),
			slog.String("user_id", p.OwnerID),
			slog.String("error", err.Error()))
		return media.PhotoRecord{}, fmt.Errorf("%w: %w", ErrCatalogWrite, err)
	}

	uploadsTotal.WithLabelValues("ok").Inc()
	return saved, nil
}

// EnforceQuota is the background variant: it takes the lease, estimates, and evicts if the
// high watermark is reached. ErrLeaseBusy means another run holds the namespace.
func (g *Gate) EnforceQuota(ctx context.Context) (EnforceResult, error) {
	release, err := g.acquire(ctx)
	if err != nil {
		return EnforceResult{}, fmt.Errorf("%w: %w", ErrLeaseBusy, err)
	}
	defer release()

	return g.enforce(ctx), nil
}

// Delete removes a photo owned by ownerID: object first, then the catalog record.
func (g *Gate) Delete(ctx context.Context, ownerID, photoID string) error {
	rec, err := g.catalog.GetPhoto(ctx, photoID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if rec.UploadedBy != ownerID {
		return ErrNotFound
	}

	if err := g.store.Delete(ctx, rec.StorageKey); err != nil {
		return err
	}
	return g.catalog.DeletePhoto(ctx, rec.ID)
}

func (g *Gate) enforce(ctx context.Context) EnforceResult {
	snap := g.estimator.EstimateUsage(ctx)
	res := EnforceResult{Snapshot: snap}
	if !snap.IsNearFull {
		return res
	}

	g.logger.Info("storage near full, evicting oldest photos",
		slog.Float64("percentage", snap.Percentage),
		slog.Int64("used_bytes", snap.UsedBytes))

	ev, err := g.evictor.RunEviction(ctx, snap.UsedBytes)
	if err != nil {
		g.logger.Warn("eviction did not complete",
			slog.Int("deleted", ev.DeletedCount),
			slog.String("error", err.Error()))
	}
	res.Eviction = &ev

	if g.notifier != nil && len(ev.DeletedByOwner) > 0 {
		g.notifier.PublishPhotosEvicted(ev.DeletedByOwner)
	}
	return res
}

// acquire returns a release func that never fails the caller; release errors are logged.
func (g *Gate) acquire(ctx context.Context) (func(), error) {
	if g.locker == nil {
		return func() {}, nil
	}

	name := leaseName(g.namespace)
	release, err := g.locker.Acquire(ctx, name)
	if err != nil {
		return nil, err
	}

	return func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			g.logger.Warn("failed to release quota lease",
				slog.String("lease", name),
				slog.String("error", err.Error()))
		}
	}, nil
}

// objectKey is <namespace><owner>/<unix millis>-<random><ext>. The random part keeps two
// uploads from the same user in the same millisecond apart.
func (g *Gate) objectKey(ownerID, ext string) string {
	return fmt.Sprintf("%s%s/%d-%s%s", g.namespace, ownerID, g.now().UnixMilli(), g.suffix(), ext)
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
