package server

import (
	"sync"

	"github.com/goccy/go-json"
)

// Event types published on a track's stream.
const (
	EventRecordCreated = "record_created"
	EventRecordUpdated = "record_updated"
	EventRecordDeleted = "record_deleted"
)

// TrackEvent is the payload published to a track's subscribers.
type TrackEvent struct {
	Type     string `json:"type"`
	TrackID  int64  `json:"trackId"`
	RecordID int64  `json:"recordId"`
	Record   string `json:"record,omitempty"`
	Player   string `json:"player,omitempty"`
}

// Broker is an in-process pub/sub for SSE events, keyed by track ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[int64]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[int64]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the track.
func (b *Broker) Subscribe(trackID int64) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[trackID] == nil {
		b.subs[trackID] = make(map[chan []byte]struct{})
	}
	b.subs[trackID][ch] = struct{}{}
	b.mu.Unlock()
	subscribers.Inc()
	return ch
}

func (b *Broker) Unsubscribe(trackID int64, ch chan []byte) {
	b.mu.Lock()
	if _, ok := b.subs[trackID][ch]; ok {
		delete(b.subs[trackID], ch)
		subscribers.Dec()
	}
	if len(b.subs[trackID]) == 0 {
		delete(b.subs, trackID)
	}
	b.mu.Unlock()
}

// Publish sends ev to every subscriber of its track. Slow subscribers miss
// the event.
func (b *Broker) Publish(ev TrackEvent) {
	data, _ := json.Marshal(ev)
	b.mu.RLock()
	for ch := range b.subs[ev.TrackID] {
		select {
		case ch <- data:
		default:
		}
	}
	b.mu.RUnlock()
}

// Subscribers returns the number of open streams for the track.
func (b *Broker) Subscribers(trackID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[trackID])
}
