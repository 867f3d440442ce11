package item

import (
	"context"
	"net/http"
	"strconv"

	"gostockflow/internal/api/respond"
	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
	"gostockflow/internal/pkg/logger"
)

// SupplierService define o contrato de recomendação esperado pelo Handler.
type SupplierService interface {
	Recommend(ctx context.Context, actor domain.ActorContext, itemID int64, requestedQuantity int) (domain.SupplierRecommendation, error)
}

// Handler expõe as consultas por item.
type Handler struct {
	Service SupplierService
	Logger  logger.Logger
}

func NewHandler(svc SupplierService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// RecommendationHandler lida com a requisição GET /v1/items/{id}/recommendation.
// @Summary Recomendação de fornecedor para um item
// @Description Prazo de entrega, data prevista e pontuação do fornecedor do item.
// @Tags items
// @Produce json
// @Param id path int true "ID do item"
// @Param quantity query int false "Quantidade desejada (mínimo 1)"
// @Success 200 {object} domain.SupplierRecommendation "Recomendação"
// @Failure 404 {object} domain.ErrorResponse "Item inexistente ou sem fornecedor"
// @Security ApiKeyAuth
// @Router /items/{id}/recommendation [get]
func (h *Handler) RecommendationHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := respond.Actor(r)
	if err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}
	itemID, err := respond.PathID(r, "id")
	if err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	quantity := 1
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		quantity, err = strconv.Atoi(raw)
		if err != nil {
			respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("O parâmetro quantity deve ser inteiro."), http.StatusOK)
			return
		}
	}

	rec, err := h.Service.Recommend(r.Context(), actor, itemID, quantity)
	respond.ServiceResponse(h.Logger, w, r, rec, err, http.StatusOK)
}
