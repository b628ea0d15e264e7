package events

import (
	"log/slog"
	"time"

	"github.com/gasgenie/gasgenie-service/internal/types"
)

// WebSocketHub is the subset of the hub the publisher needs.
type WebSocketHub interface {
	BroadcastToUser(userID string, event *types.Event)
	IsUserConnected(userID string) bool
}

// EventPublisher tells photo owners about quota activity over WebSocket. Owners who are
// offline are skipped; there is no replay.
type EventPublisher struct {
	hub WebSocketHub
	now func() time.Time
}

func NewEventPublisher(hub WebSocketHub) *EventPublisher {
	return &EventPublisher{
		hub: hub,
		now: time.Now,
	}
}

// PublishPhotosEvicted sends each owner the number of their photos that eviction removed.
func (p *EventPublisher) PublishPhotosEvicted(byOwner map[string]int) {
	evictedAt := p.now().UTC().Format(time.RFC3339)

	for ownerID, count := range byOwner {
		if count == 0 || !p.hub.IsUserConnected(ownerID) {
			continue
		}

		p.hub.BroadcastToUser(ownerID, types.NewEvent(types.EventPhotosEvicted, &types.PhotosEvictedEvent{
			Count:     count,
			EvictedAt: evictedAt,
		}))
	}
}

// PublishStorageNearFull warns the uploader whose request triggered eviction.
func (p *EventPublisher) PublishStorageNearFull(userID string, percentage float64, deletedCount int) {
	if !p.hub.IsUserConnected(userID) {
		return
	}

	slog.Debug("Publishing storage near full event",
		slog.String("user_id", userID),
		slog.Float64("percentage", percentage))

	p.hub.BroadcastToUser(userID, types.NewEvent(types.EventStorageNearFull, &types.StorageNearFullEvent{
		Percentage:   percentage,
		DeletedCount: deletedCount,
	}))
}
