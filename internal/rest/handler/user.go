package handler

import (
	"net/http"

	"github.com/alwat83/ifyoumind/internal/database"
	restTypes "github.com/alwat83/ifyoumind/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// UserHandler handles user-related REST endpoints.
type UserHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(db database.Client, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		db:     db,
		logger: logger,
	}
}

// GetUserStats returns the engagement projection for an author. Users
// without any recorded activity get a zero-valued projection.
func (h *UserHandler) GetUserStats(w http.ResponseWriter, req bunrouter.Request) error {
	userID := req.Param("id")

	stats, err := h.db.Model().Stats().GetUserStats(req.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get user stats",
			zap.String("userID", userID),
			zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	return bunrouter.JSON(w, restTypes.UserStatsResponse{
		UserID:               userID,
		TotalIdeas:           stats.TotalIdeas,
		TotalUpvotesReceived: stats.TotalUpvotesReceived,
	})
}

// GetUserIdeas returns all ideas authored by a user, newest first.
func (h *UserHandler) GetUserIdeas(w http.ResponseWriter, req bunrouter.Request) error {
	userID := req.Param("id")

	ideas, err := h.db.Model().Idea().GetUserIdeas(req.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get user ideas",
			zap.String("userID", userID),
			zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	return bunrouter.JSON(w, ideas)
}
