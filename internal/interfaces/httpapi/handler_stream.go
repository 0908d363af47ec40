package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/cricbid/auction-platform/internal/realtime"
	"github.com/cricbid/auction-platform/internal/usecase"
)

const streamKeepAlive = 20 * time.Second

// StreamAuction serves the auction room as a server-sent event stream.
// Every broadcast becomes one SSE message named after the event; a comment
// line goes out periodically so idle proxies keep the connection open.
func (h *Handler) StreamAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamAuction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: streaming is not supported by this connection", usecase.ErrInvalidInput))
		return
	}

	auctionID := r.PathValue("auctionID")
	clientID := strings.TrimSpace(r.URL.Query().Get("client_id"))
	if clientID == "" {
		clientID = principal.UserID
	}

	sub, leave, err := h.auctionService.Subscribe(ctx, principal, auctionID, clientID)
	if err != nil {
		h.logger.WarnContext(ctx, "auction subscribe failed", "auction_id", auctionID, "error", err)
		writeError(ctx, w, err)
		return
	}
	defer leave()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, ": connected client=%s\n\n", clientID)
	flusher.Flush()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case event, open := <-sub.C:
			if !open {
				// Room closed (auction finished) or the hub dropped this
				// client for falling behind.
				return
			}
			if err := writeSSE(w, event); err != nil {
				h.logger.WarnContext(ctx, "stream write failed", "auction_id", auctionID, "client_id", clientID, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event realtime.Event) error {
	data, err := sonic.Marshal(map[string]any{
		"name":    event.Name,
		"at":      event.At,
		"payload": event.Payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Name, err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data); err != nil {
		return fmt.Errorf("write event %s: %w", event.Name, err)
	}

	return nil
}
