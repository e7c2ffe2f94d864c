package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/alwat83/ifyoumind/internal/cache"
	"github.com/alwat83/ifyoumind/internal/database"
	"github.com/alwat83/ifyoumind/internal/database/service"
	"github.com/alwat83/ifyoumind/internal/database/types"
	"github.com/alwat83/ifyoumind/internal/rest/middleware/auth"
	restTypes "github.com/alwat83/ifyoumind/internal/rest/types"
	"github.com/bytedance/sonic"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

const (
	// DefaultListLimit bounds idea listings when no limit is supplied.
	DefaultListLimit = 20
	// MaxListLimit is the hard ceiling for a single listing request.
	MaxListLimit = 50
)

// IdeaHandler handles idea-related REST endpoints.
type IdeaHandler struct {
	db     database.Client
	cache  *cache.TrendingCache
	logger *zap.Logger
}

// NewIdeaHandler creates a new idea handler.
func NewIdeaHandler(db database.Client, trendingCache *cache.TrendingCache, logger *zap.Logger) *IdeaHandler {
	return &IdeaHandler{
		db:     db,
		cache:  trendingCache,
		logger: logger,
	}
}

// CreateIdea inserts a new idea authored by the authenticated user.
func (h *IdeaHandler) CreateIdea(w http.ResponseWriter, req bunrouter.Request) error {
	identity, ok := auth.FromContext(req.Context())
	if !ok {
		http.Error(w, "Please sign in to share ideas", http.StatusUnauthorized)
		return nil
	}

	var body restTypes.CreateIdeaRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil
	}

	if strings.TrimSpace(body.Problem) == "" || strings.TrimSpace(body.Solution) == "" {
		http.Error(w, "Problem and solution are required", http.StatusBadRequest)
		return nil
	}

	isPublic := true
	if body.IsPublic != nil {
		isPublic = *body.IsPublic
	}

	idea, err := h.db.Service().Idea().Create(req.Context(), service.NewIdeaParams{
		Problem:    body.Problem,
		Solution:   body.Solution,
		Impact:     body.Impact,
		Category:   body.Category,
		Tags:       body.Tags,
		IsPublic:   isPublic,
		AuthorID:   identity.UserID,
		AuthorName: body.AuthorName,
	})
	if err != nil {
		h.logger.Error("Failed to create idea", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil
	}

	w.WriteHeader(http.StatusCreated)

	return bunrouter.JSON(w, idea)
}

// GetIdea returns a single idea by ID.
func (h *IdeaHandler) GetIdea(w http.ResponseWriter, req bunrouter.Request) error {
	idea, err := h.db.Model().Idea().GetIdea(req.Context(), req.Param("id"))
	if err != nil {
		if errors.Is(err, types.ErrIdeaNotFound) {
			http.Error(w, "Idea not found", http.StatusNotFound)
			return nil
		}

		h.logger.Error("Failed to get idea", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	return bunrouter.JSON(w, idea)
}

// ListIdeas returns public ideas ordered by recency or trending score,
// optionally filtered by category or a search term.
func (h *IdeaHandler) ListIdeas(w http.ResponseWriter, req bunrouter.Request) error {
	query := req.URL.Query()

	limit := DefaultListLimit
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return nil
		}

		limit = min(parsed, MaxListLimit)
	}

	var (
		ideas []*types.Idea
		err   error
	)

	switch {
	case query.Get("q") != "":
		ideas, err = h.db.Service().Idea().Search(req.Context(), query.Get("q"), limit)
	case query.Get("category") != "":
		ideas, err = h.db.Model().Idea().GetIdeasByCategory(req.Context(), query.Get("category"), limit)
	case query.Get("sort") == "trending":
		return h.listTrending(w, req, limit)
	default:
		ideas, err = h.db.Model().Idea().GetRecentIdeas(req.Context(), limit)
	}

	if err != nil {
		h.logger.Error("Failed to list ideas", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	return bunrouter.JSON(w, ideas)
}

// listTrending serves the trending listing through the Redis cache,
// falling back to the database on a miss or cache error.
func (h *IdeaHandler) listTrending(w http.ResponseWriter, req bunrouter.Request, limit int) error {
	if cached, ok := h.cache.Get(req.Context(), limit); ok {
		return bunrouter.JSON(w, cached)
	}

	ideas, err := h.db.Model().Idea().GetTrendingIdeas(req.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list trending ideas", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	h.cache.Set(req.Context(), limit, ideas)

	return bunrouter.JSON(w, ideas)
}

// DeleteIdea removes an idea and its bookmarks. Restricted to moderators
// and admins.
func (h *IdeaHandler) DeleteIdea(w http.ResponseWriter, req bunrouter.Request) error {
	identity, ok := auth.FromContext(req.Context())
	if !ok {
		http.Error(w, "Please sign in", http.StatusUnauthorized)
		return nil
	}

	if !identity.CanModerate() {
		http.Error(w, "Moderator access required", http.StatusForbidden)
		return nil
	}

	ideaID := req.Param("id")

	if err := h.db.Service().Idea().ModerateDelete(req.Context(), ideaID); err != nil {
		if errors.Is(err, types.ErrIdeaNotFound) {
			http.Error(w, "Idea not found", http.StatusNotFound)
			return nil
		}

		h.logger.Error("Failed to delete idea",
			zap.String("ideaID", ideaID),
			zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	h.logger.Info("Idea removed by moderator",
		zap.String("ideaID", ideaID),
		zap.String("moderatorID", identity.UserID))

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// GetCategories returns the distinct categories in use.
func (h *IdeaHandler) GetCategories(w http.ResponseWriter, req bunrouter.Request) error {
	categories, err := h.db.Model().Idea().GetCategories(req.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	return bunrouter.JSON(w, categories)
}
