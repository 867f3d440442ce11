// Package respond centraliza a escrita das respostas JSON dos handlers.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
	"gostockflow/internal/pkg/logger"
	"gostockflow/internal/pkg/middleware"
)

// ServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func ServiceResponse(log logger.Logger, w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				log.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
		// Detalhes do driver não vão para o cliente.
		message = "Falha interna ao processar a requisição."
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{
			"path":       r.URL.Path,
			"request_id": middleware.RequestIDFromContext(r.Context()),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}

// Actor extrai o ator autenticado do contexto da requisição.
func Actor(r *http.Request) (domain.ActorContext, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return domain.ActorContext{}, apperror.NewUnauthorizedError("Autorização necessária. Token não processado.")
	}
	return actor, nil
}

// PathID lê um identificador inteiro positivo do padrão de rota.
func PathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewValidationError(fmt.Sprintf("Identificador inválido: %q.", raw))
	}
	return id, nil
}
