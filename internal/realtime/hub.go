package realtime

import "sync"

const defaultBuffer = 16

// Hub fans events out to room subscribers. Publish never blocks: a
// subscriber whose buffer is full is dropped and its channel closed, so a
// stalled spectator cannot hold up the auction path. Join/Leave take only
// the hub lock, never any auction lock.
type Hub struct {
	mu     sync.RWMutex
	buffer int
	rooms  map[string]map[string]chan Event
}

// Subscription is one client's view of a room.
type Subscription struct {
	ClientID string
	C        <-chan Event
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		buffer: buffer,
		rooms:  make(map[string]map[string]chan Event),
	}
}

// Join registers a client in a room, replacing any previous subscription
// under the same client id.
func (h *Hub) Join(room, clientID string) *Subscription {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	subs, ok := h.rooms[room]
	if !ok {
		subs = make(map[string]chan Event)
		h.rooms[room] = subs
	}
	if prev, ok := subs[clientID]; ok {
		close(prev)
	}
	subs[clientID] = ch
	h.mu.Unlock()

	return &Subscription{ClientID: clientID, C: ch}
}

func (h *Hub) Leave(room, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.rooms[room]
	if !ok {
		return
	}
	if ch, ok := subs[clientID]; ok {
		close(ch)
		delete(subs, clientID)
	}
	if len(subs) == 0 {
		delete(h.rooms, room)
	}
}

// Publish delivers the event to every room subscriber that can accept it
// immediately and drops the rest.
func (h *Hub) Publish(room string, event Event) {
	var stale []string

	h.mu.RLock()
	for clientID, ch := range h.rooms[room] {
		select {
		case ch <- event:
		default:
			stale = append(stale, clientID)
		}
	}
	h.mu.RUnlock()

	for _, clientID := range stale {
		h.Leave(room, clientID)
	}
}

// CloseRoom disconnects every subscriber of a room, used when a session
// reaches a terminal state.
func (h *Hub) CloseRoom(room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.rooms[room] {
		close(ch)
	}
	delete(h.rooms, room)
}

// RoomSize reports the current subscriber count, for diagnostics.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
