package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/alwat83/ifyoumind/internal/setup/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// ErrNoIdentity is returned when a request carries no valid caller identity.
var ErrNoIdentity = errors.New("no authenticated identity")

// Identity is the verified caller identity with its capability set. Role
// claims are resolved once here at the request boundary; handlers only
// check the booleans.
type Identity struct {
	UserID    string
	Admin     bool
	Moderator bool
}

// CanModerate reports whether the identity may perform moderation actions.
func (i *Identity) CanModerate() bool {
	return i.Admin || i.Moderator
}

type identityCtxKey struct{}

// FromContext retrieves the verified caller identity from context.
func FromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(*Identity)
	return identity, ok
}

// WithIdentity returns a context carrying the given identity. Used by tests
// and by the middleware itself.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// Middleware verifies session tokens and attaches the caller identity to
// the request context. Requests without a valid token pass through without
// an identity; handlers that require one reject them.
type Middleware struct {
	secret []byte
	issuer string
	logger *zap.Logger
}

// New creates a new auth middleware.
func New(cfg *config.Auth, logger *zap.Logger) *Middleware {
	return &Middleware{
		secret: []byte(cfg.SessionSecret),
		issuer: cfg.Issuer,
		logger: logger.Named("auth"),
	}
}

// AsRESTMiddleware returns a bunrouter middleware handler for identity extraction.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		identity, err := m.verify(req.Header.Get("Authorization"))
		if err != nil {
			if !errors.Is(err, ErrNoIdentity) {
				m.logger.Debug("Rejected session token", zap.Error(err))
			}

			return next(w, req)
		}

		ctx := WithIdentity(req.Context(), identity)

		return next(w, req.WithContext(ctx))
	}
}

// verify parses and validates a bearer token, returning the caller identity.
func (m *Middleware) verify(header string) (*Identity, error) {
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return nil, ErrNoIdentity
	}

	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
	)
	if err != nil {
		return nil, err
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrNoIdentity
	}

	admin, _ := claims["admin"].(bool)
	moderator, _ := claims["moderator"].(bool)

	return &Identity{
		UserID:    subject,
		Admin:     admin,
		Moderator: moderator,
	}, nil
}
