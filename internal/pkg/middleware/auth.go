package middleware

import (
	"context"
	"net/http"
	"strings"

	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
	"gostockflow/internal/pkg/authz"
	"gostockflow/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote (não exportadas por valor).
type ContextKey int

const (
	ActorKey ContextKey = iota
	RequestIDKey
)

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewAuthMiddleware valida o JWT e anexa o domain.ActorContext ao contexto da requisição.
// Um papel fora do conjunto fechado resulta em 403.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(tokenString) == "" {
				writeError(w, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
				return
			}

			claims, err := tokenSvc.ValidateToken(strings.TrimSpace(tokenString))
			if err != nil {
				writeError(w, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			role, ok := domain.ParseRole(claims.Role)
			if !ok {
				writeError(w, apperror.NewForbiddenError("Papel desconhecido no token."))
				return
			}

			actor := domain.ActorContext{UserID: claims.UserID, Role: role}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		}
	}
}

// WithActor anexa o ator ao contexto (usado também em testes de handler).
func WithActor(ctx context.Context, actor domain.ActorContext) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// ActorFromContext extrai o ator anexado pelo AuthMiddleware.
func ActorFromContext(ctx context.Context) (domain.ActorContext, bool) {
	actor, ok := ctx.Value(ActorKey).(domain.ActorContext)
	return actor, ok
}

// PermissionMiddleware barra a requisição na borda quando o papel do ator não tem
// permissão para (object, action). Os serviços repetem a checagem.
func PermissionMiddleware(authorizer authz.Authorizer, object, action string) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeError(w, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			if err := authorizer.Authorize(actor, object, action); err != nil {
				writeError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}
