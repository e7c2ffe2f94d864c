package handler

import (
	"errors"
	"net/http"

	"github.com/alwat83/ifyoumind/internal/database"
	"github.com/alwat83/ifyoumind/internal/database/types"
	"github.com/alwat83/ifyoumind/internal/rest/middleware/auth"
	restTypes "github.com/alwat83/ifyoumind/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// VoteHandler handles vote-related REST endpoints.
type VoteHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewVoteHandler creates a new vote handler.
func NewVoteHandler(db database.Client, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{
		db:     db,
		logger: logger,
	}
}

// ToggleVote flips the caller's upvote on an idea and returns the
// authoritative membership and count.
func (h *VoteHandler) ToggleVote(w http.ResponseWriter, req bunrouter.Request) error {
	identity, ok := auth.FromContext(req.Context())
	if !ok {
		http.Error(w, "Please sign in to upvote ideas", http.StatusUnauthorized)
		return nil
	}

	ideaID := req.Param("id")
	if ideaID == "" {
		http.Error(w, "Missing idea ID", http.StatusBadRequest)
		return nil
	}

	upvoted, upvotes, err := h.db.Service().Vote().Toggle(req.Context(), ideaID, identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrIdeaNotFound):
			http.Error(w, "Idea not found", http.StatusNotFound)
		case errors.Is(err, types.ErrVoteConflict):
			http.Error(w, "Vote conflict, please try again", http.StatusConflict)
		default:
			h.logger.Error("Failed to toggle vote",
				zap.String("ideaID", ideaID),
				zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return nil
	}

	return bunrouter.JSON(w, restTypes.VoteResponse{
		Upvoted: upvoted,
		Upvotes: upvotes,
	})
}
