package rest

import (
	"net/http"

	"github.com/alwat83/ifyoumind/internal/cache"
	"github.com/alwat83/ifyoumind/internal/database"
	"github.com/alwat83/ifyoumind/internal/rest/handler"
	"github.com/alwat83/ifyoumind/internal/rest/middleware/auth"
	"github.com/alwat83/ifyoumind/internal/rest/middleware/header"
	"github.com/alwat83/ifyoumind/internal/rest/middleware/ratelimit"
	"github.com/alwat83/ifyoumind/internal/setup/config"
	"github.com/klauspost/compress/gzhttp"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Server implements the REST API service.
type Server struct {
	ideaHandler     *handler.IdeaHandler
	voteHandler     *handler.VoteHandler
	bookmarkHandler *handler.BookmarkHandler
	userHandler     *handler.UserHandler
}

// NewServer creates a new REST API server.
func NewServer(
	db database.Client,
	trendingCache *cache.TrendingCache,
	logger *zap.Logger,
	config *config.APIConfig,
) (http.Handler, error) {
	// Create server instance with handlers
	server := &Server{
		ideaHandler:     handler.NewIdeaHandler(db, trendingCache, logger),
		voteHandler:     handler.NewVoteHandler(db, logger),
		bookmarkHandler: handler.NewBookmarkHandler(db, logger),
		userHandler:     handler.NewUserHandler(db, logger),
	}

	// Create middleware instances
	headerMiddleware := header.New(logger)
	authMiddleware := auth.New(&config.Auth, logger)
	rateLimiter := ratelimit.New(&config.RateLimit, logger)

	// Create base router
	router := bunrouter.New()

	// Create API routes group
	router.Use(
		headerMiddleware.AsRESTMiddleware,
		authMiddleware.AsRESTMiddleware,
		rateLimiter.AsRESTMiddleware,
	).WithGroup("/v1", func(g *bunrouter.Group) {
		g.GET("/ideas", server.ideaHandler.ListIdeas)
		g.POST("/ideas", server.ideaHandler.CreateIdea)
		g.GET("/ideas/:id", server.ideaHandler.GetIdea)
		g.DELETE("/ideas/:id", server.ideaHandler.DeleteIdea)
		g.POST("/ideas/:id/vote", server.voteHandler.ToggleVote)
		g.POST("/ideas/:id/bookmark", server.bookmarkHandler.ToggleBookmark)
		g.GET("/bookmarks", server.bookmarkHandler.ListBookmarks)
		g.GET("/categories", server.ideaHandler.GetCategories)
		g.GET("/users/:id/stats", server.userHandler.GetUserStats)
		g.GET("/users/:id/ideas", server.userHandler.GetUserIdeas)
	})

	// Add gzip compression
	return gzhttp.GzipHandler(router), nil
}
