package types

import "time"

// EventType represents the type of real-time event
type EventType string

const (
	EventPhotosEvicted   EventType = "photos.evicted"
	EventStorageNearFull EventType = "storage.near_full"
)

// Event represents a real-time event that can be sent over WebSocket
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// PhotosEvictedEvent tells an owner how many of their oldest photos were removed.
type PhotosEvictedEvent struct {
	Count     int    `json:"count"`
	EvictedAt string `json:"evicted_at"`
}

type StorageNearFullEvent struct {
	Percentage   float64 `json:"percentage"`
	DeletedCount int     `json:"deleted_count"`
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
