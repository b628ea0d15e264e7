package quota

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gasgenie/gasgenie-service/internal/storage"
	"github.com/gasgenie/gasgenie-service/internal/types/media"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory object store with one-level listing.
type memStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	listErr   error
	putErr    error
	deleteErr map[string]error
	deletes   []string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, deleteErr: map[string]error{}}
}

func (s *memStore) List(ctx context.Context, prefix string) ([]media.StoredObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listErr != nil {
		return nil, s.listErr
	}

	seen := map[string]bool{}
	var out []media.StoredObject
	for key := range s.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := key[len(prefix):]
		if i := strings.Index(rest, "/"); i >= 0 {
			p := prefix + rest[:i+1]
			if !seen[p] {
				seen[p] = true
				out = append(out, media.StoredObject{Key: p, IsPrefix: true})
			}
			continue
		}
		out = append(out, media.StoredObject{Key: key, Size: int64(len(s.objects[key]))})
	}
	return out, nil
}

func (s *memStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return "http://store/" + key, nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deleteErr[key]; err != nil {
		return err
	}
	s.deletes = append(s.deletes, key)
	delete(s.objects, key)
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

// memCatalog keeps records in insertion order with sequential IDs.
type memCatalog struct {
	mu        sync.Mutex
	records   map[string]media.PhotoRecord
	nextID    int
	insertErr error
	listErr   error
	deleteErr map[string]error
}

func newMemCatalog() *memCatalog {
	return &memCatalog{records: map[string]media.PhotoRecord{}, deleteErr: map[string]error{}}
}

func (c *memCatalog) InsertPhoto(ctx context.Context, rec media.PhotoRecord) (media.PhotoRecord, error) {
	if c.insertErr != nil {
		return media.PhotoRecord{}, c.insertErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	rec.ID = strconv.Itoa(c.nextID)
	c.records[rec.ID] = rec
	return rec, nil
}

func (c *memCatalog) GetPhoto(ctx context.Context, id string) (media.PhotoRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.records[id]
	if !ok {
		return media.PhotoRecord{}, storage.ErrNotFound
	}
	return rec, nil
}

func (c *memCatalog) ListPhotosOldestFirst(ctx context.Context) ([]media.PhotoRecord, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]media.PhotoRecord, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out, nil
}

func (c *memCatalog) DeletePhoto(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.deleteErr[id]; err != nil {
		return err
	}
	delete(c.records, id)
	return nil
}

func (c *memCatalog) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// seed adds n photos, one minute apart starting at base, spread across owners. Each gets a
// matching object under namespace.
func seed(store *memStore, catalog *memCatalog, namespace string, n int, owners []string, base time.Time) {
	for i := 0; i < n; i++ {
		owner := owners[i%len(owners)]
		key := fmt.Sprintf("%s%s/%06d.jpg", namespace, owner, i)
		store.objects[key] = []byte("x")
		catalog.InsertPhoto(context.Background(), media.PhotoRecord{
			StorageKey:  key,
			URL:         "http://store/" + key,
			ContentType: "image/jpeg",
			UploadedBy:  owner,
			UploadedAt:  base.Add(time.Duration(i) * time.Minute),
		})
	}
}

type fakeLocker struct {
	mu       sync.Mutex
	err      error
	acquired int
	released int
}

func (l *fakeLocker) Acquire(ctx context.Context, name string) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return nil, l.err
	}
	l.acquired++
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.released++
		return nil
	}, nil
}

type recordingNotifier struct {
	evicted  []map[string]int
	nearFull []string
}

func (n *recordingNotifier) PublishPhotosEvicted(byOwner map[string]int) {
	n.evicted = append(n.evicted, byOwner)
}

func (n *recordingNotifier) PublishStorageNearFull(userID string, percentage float64, deletedCount int) {
	n.nearFull = append(n.nearFull, userID)
}

var errBoom = errors.New("boom")
