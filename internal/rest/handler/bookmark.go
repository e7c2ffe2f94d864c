package handler

import (
	"net/http"

	"github.com/alwat83/ifyoumind/internal/database"
	"github.com/alwat83/ifyoumind/internal/rest/middleware/auth"
	restTypes "github.com/alwat83/ifyoumind/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// BookmarkHandler handles bookmark-related REST endpoints.
type BookmarkHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewBookmarkHandler creates a new bookmark handler.
func NewBookmarkHandler(db database.Client, logger *zap.Logger) *BookmarkHandler {
	return &BookmarkHandler{
		db:     db,
		logger: logger,
	}
}

// ToggleBookmark flips the caller's bookmark on an idea.
func (h *BookmarkHandler) ToggleBookmark(w http.ResponseWriter, req bunrouter.Request) error {
	identity, ok := auth.FromContext(req.Context())
	if !ok {
		http.Error(w, "Please sign in to bookmark ideas", http.StatusUnauthorized)
		return nil
	}

	ideaID := req.Param("id")
	if ideaID == "" {
		http.Error(w, "Missing idea ID", http.StatusBadRequest)
		return nil
	}

	bookmarked, err := h.db.Service().Bookmark().Toggle(req.Context(), identity.UserID, ideaID)
	if err != nil {
		h.logger.Error("Failed to toggle bookmark",
			zap.String("ideaID", ideaID),
			zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	return bunrouter.JSON(w, restTypes.BookmarkResponse{Bookmarked: bookmarked})
}

// ListBookmarks returns the idea IDs the caller has bookmarked.
func (h *BookmarkHandler) ListBookmarks(w http.ResponseWriter, req bunrouter.Request) error {
	identity, ok := auth.FromContext(req.Context())
	if !ok {
		http.Error(w, "Please sign in", http.StatusUnauthorized)
		return nil
	}

	ideaIDs, err := h.db.Service().Bookmark().List(req.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("Failed to list bookmarks", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	return bunrouter.JSON(w, restTypes.BookmarkListResponse{IdeaIDs: ideaIDs})
}
