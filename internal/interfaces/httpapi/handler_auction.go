package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/cricbid/auction-platform/internal/domain/user"
	"github.com/cricbid/auction-platform/internal/session"
	"github.com/cricbid/auction-platform/internal/usecase"
)

type placeBidRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	TeamID   string `json:"team_id" validate:"required"`
	Amount   int64  `json:"amount" validate:"required,gt=0"`
}

type resolveRoundRequest struct {
	Decision string `json:"decision" validate:"required,oneof=sell unsold"`
	TeamID   string `json:"team_id" validate:"omitempty"`
	Amount   int64  `json:"amount" validate:"omitempty,gt=0"`
}

type requeueUnsoldRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

func (h *Handler) ListAuctionsByTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAuctionsByTournament")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	auctions, err := h.auctionService.ListAuctionsByTournament(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list auctions failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]auctionDTO, 0, len(auctions))
	for _, a := range auctions {
		items = append(items, auctionToDTO(a))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAuction")
	defer span.End()

	auctionID := r.PathValue("auctionID")
	a, err := h.auctionService.GetAuction(ctx, auctionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get auction failed", "auction_id", auctionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, auctionToDTO(a))
}

func (h *Handler) ListAuctionBids(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAuctionBids")
	defer span.End()

	auctionID := r.PathValue("auctionID")
	bids, err := h.auctionService.ListBids(ctx, auctionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list auction bids failed", "auction_id", auctionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bidsToDTO(bids))
}

func (h *Handler) ListPlayerBids(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerBids")
	defer span.End()

	auctionID := r.PathValue("auctionID")
	playerID := r.PathValue("playerID")
	bids, err := h.auctionService.ListPlayerBids(ctx, auctionID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "list player bids failed", "auction_id", auctionID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bidsToDTO(bids))
}

func (h *Handler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceBid")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req placeBidRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	auctionID := r.PathValue("auctionID")
	placed, snap, err := h.bidService.PlaceBid(ctx, principal, usecase.PlaceBidInput{
		AuctionID: auctionID,
		PlayerID:  req.PlayerID,
		TeamID:    req.TeamID,
		Amount:    req.Amount,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "place bid failed",
			"auction_id", auctionID, "team_id", req.TeamID, "amount", req.Amount, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]any{
		"bid":     bidToDTO(placed),
		"auction": auctionToDTO(snap.Auction),
	})
}

func (h *Handler) StartAuction(w http.ResponseWriter, r *http.Request) {
	h.controlAuction(w, r, "httpapi.Handler.StartAuction", h.auctionService.Start)
}

func (h *Handler) PauseAuction(w http.ResponseWriter, r *http.Request) {
	h.controlAuction(w, r, "httpapi.Handler.PauseAuction", h.auctionService.Pause)
}

func (h *Handler) ResumeAuction(w http.ResponseWriter, r *http.Request) {
	h.controlAuction(w, r, "httpapi.Handler.ResumeAuction", h.auctionService.Resume)
}

func (h *Handler) CancelAuction(w http.ResponseWriter, r *http.Request) {
	h.controlAuction(w, r, "httpapi.Handler.CancelAuction", h.auctionService.Cancel)
}

func (h *Handler) AdvanceAuction(w http.ResponseWriter, r *http.Request) {
	h.controlAuction(w, r, "httpapi.Handler.AdvanceAuction", h.auctionService.Advance)
}

func (h *Handler) ResolveRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveRound")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req resolveRoundRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	auctionID := r.PathValue("auctionID")
	snap, err := h.auctionService.Resolve(ctx, principal, auctionID, session.ResolveInput{
		Decision: session.ResolveDecision(req.Decision),
		TeamID:   req.TeamID,
		Amount:   req.Amount,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "resolve round failed",
			"auction_id", auctionID, "decision", req.Decision, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, auctionToDTO(snap.Auction))
}

func (h *Handler) RequeueUnsoldPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequeueUnsoldPlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req requeueUnsoldRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	auctionID := r.PathValue("auctionID")
	snap, err := h.auctionService.RequeueUnsold(ctx, principal, auctionID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "requeue unsold failed",
			"auction_id", auctionID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, auctionToDTO(snap.Auction))
}

type controlFunc func(ctx context.Context, p user.Principal, auctionID string) (session.Snapshot, error)

func (h *Handler) controlAuction(w http.ResponseWriter, r *http.Request, spanName string, op controlFunc) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	auctionID := r.PathValue("auctionID")
	snap, err := op(ctx, principal, auctionID)
	if err != nil {
		h.logger.WarnContext(ctx, "auction control failed",
			"auction_id", auctionID, "op", spanName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, auctionToDTO(snap.Auction))
}
