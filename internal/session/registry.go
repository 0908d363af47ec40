package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc"

	idgen "github.com/cricbid/auction-platform/internal/platform/id"
)

// Registry maps auction IDs to live sessions. Sessions spin up lazily on
// first use and are evicted once their auction reaches a terminal state.
type Registry struct {
	cfg       Config
	stores    Stores
	broadcast Broadcaster
	idGen     idgen.Generator
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

func NewRegistry(stores Stores, broadcast Broadcaster, gen idgen.Generator, logger *slog.Logger, cfg Config) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		cfg:       cfg,
		stores:    stores,
		broadcast: broadcast,
		idGen:     gen,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// Get returns the live session for an auction, starting one from the
// persisted aggregate when none is running. The second return is false when
// the auction does not exist.
func (r *Registry) Get(ctx context.Context, auctionID string) (*Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, false, ErrClosed
	}
	if s, ok := r.sessions[auctionID]; ok {
		if !s.Closed() {
			return s, true, nil
		}
		delete(r.sessions, auctionID)
	}

	a, ok, err := r.stores.Auctions.GetByID(ctx, auctionID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	s := New(a, r.stores, r.broadcast, r.idGen, r.logger, r.cfg)
	r.sessions[auctionID] = s
	r.logger.InfoContext(ctx, "auction session started", "auction_id", auctionID, "status", string(a.Status))

	return s, true, nil
}

// Peek returns the session only if one is already live.
func (r *Registry) Peek(auctionID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[auctionID]
	if !ok || s.Closed() {
		return nil, false
	}
	return s, true
}

// Evict drops a session from the registry and stops it.
func (r *Registry) Evict(auctionID string) {
	r.mu.Lock()
	s, ok := r.sessions[auctionID]
	delete(r.sessions, auctionID)
	r.mu.Unlock()

	if ok {
		s.Stop()
	}
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Shutdown stops every session and refuses new ones.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	r.closed = true
	stopping := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		stopping = append(stopping, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	var wg conc.WaitGroup
	for _, s := range stopping {
		wg.Go(s.Stop)
	}
	wg.Wait()
}
