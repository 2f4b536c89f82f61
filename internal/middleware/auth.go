package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// MemberKey is the context key for storing the authenticated member.
const MemberKey contextKey = "member"

// GetMember extracts the authenticated member from the context.
// Returns empty string if not found.
func GetMember(ctx context.Context) models.Member {
	member, _ := ctx.Value(MemberKey).(models.Member)
	return member
}

// WithMember returns a copy of ctx carrying member.
func WithMember(ctx context.Context, member models.Member) context.Context {
	return context.WithValue(ctx, MemberKey, member)
}

// RequireAuth returns an interceptor that validates bearer tokens and rejects
// unauthenticated calls. The token's member is added to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithMember(ctx, models.Member(claims.Member)), req)
		}
	}
}
