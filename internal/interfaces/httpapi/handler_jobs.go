package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/cricbid/auction-platform/internal/usecase"
)

type importPlayersRequest struct {
	TournamentID string `json:"tournament_id" validate:"required"`
	ProviderRef  string `json:"provider_ref" validate:"required"`
}

// RunImportPlayersJob pulls the provider roster for a tournament into the
// catalogue. Internal endpoint, guarded by the job token.
func (h *Handler) RunImportPlayersJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunImportPlayersJob")
	defer span.End()

	var req importPlayersRequest
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

	imported, err := h.feedImportService.ImportPlayers(ctx, req.TournamentID, req.ProviderRef)
	if err != nil {
		h.logger.WarnContext(ctx, "import players job failed",
			"tournament_id", req.TournamentID, "provider_ref", req.ProviderRef, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"tournamentId": req.TournamentID,
		"imported":     imported,
	})
}
