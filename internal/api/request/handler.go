package request

import (
	"context"
	"encoding/json"
	"net/http"

	"gostockflow/internal/api/respond"
	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
	"gostockflow/internal/pkg/logger"
)

// RequestService define o contrato que o Handler espera da camada de Serviço.
type RequestService interface {
	Submit(ctx context.Context, actor domain.ActorContext, in domain.SubmitInput) (domain.StockRequest, error)
	ListPending(ctx context.Context, actor domain.ActorContext) ([]domain.StockRequest, error)
	ListMine(ctx context.Context, actor domain.ActorContext) ([]domain.StockRequest, error)
	Get(ctx context.Context, actor domain.ActorContext, id int64) (domain.StockRequest, error)
	Approve(ctx context.Context, actor domain.ActorContext, id int64) error
	Reject(ctx context.Context, actor domain.ActorContext, id int64) error
	BulkApprove(ctx context.Context, actor domain.ActorContext, in domain.BulkApproveInput) (int, error)
}

// ConsolidationService define o detector de consolidação exposto pela API.
type ConsolidationService interface {
	FindOpportunities(ctx context.Context, actor domain.ActorContext) ([]domain.ConsolidationGroup, error)
}

// TransitionResponse é a resposta de aprovação ou rejeição individual.
type TransitionResponse struct {
	RequestID int64                `json:"request_id"`
	Status    domain.RequestStatus `json:"status"`
}

// BulkApproveResponse é a resposta da aprovação em lote.
type BulkApproveResponse struct {
	Approved int `json:"approved"`
}

// Handler agrupa todos os métodos de Handler de requisições de estoque.
type Handler struct {
	Service       RequestService
	Consolidation ConsolidationService
	Logger        logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando os Services e o Logger.
func NewHandler(svc RequestService, consolidation ConsolidationService, log logger.Logger) *Handler {
	return &Handler{
		Service:       svc,
		Consolidation: consolidation,
		Logger:        log,
	}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	respond.ServiceResponse(h.Logger, w, r, data, err, successStatus)
}

// SubmitHandler lida com a requisição POST /v1/requests.
// @Summary Submete uma requisição de estoque
// @Description Calcula a prioridade no momento da submissão e grava a requisição como Pending.
// @Tags requests
// @Accept json
// @Produce json
// @Param request body domain.SubmitInput true "Item, quantidade e urgência"
// @Success 201 {object} domain.StockRequest "Requisição criada"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Item não encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /requests [post]
func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := respond.Actor(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	var in domain.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	created, err := h.Service.Submit(r.Context(), actor, in)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, created, nil, http.StatusCreated)
}

// ListPendingHandler lida com a requisição GET /v1/requests/pending.
// @Summary Fila de aprovação
// @Description Requisições pendentes ordenadas por prioridade (desc) e antiguidade.
// @Tags requests
// @Produce json
// @Success 200 {array} domain.StockRequest "Requisições pendentes"
// @Failure 403 {object} domain.ErrorResponse "Acesso negado"
// @Security ApiKeyAuth
// @Router /requests/pending [get]
func (h *Handler) ListPendingHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := respond.Actor(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	requests, err := h.Service.ListPending(r.Context(), actor)
	h.handleServiceResponse(w, r, requests, err, http.StatusOK)
}

// ListMineHandler lida com a requisição GET /v1/requests/mine.
// @Summary Minhas requisições
// @Tags requests
// @Produce json
// @Success 200 {array} domain.StockRequest "Requisições do usuário"
// @Security ApiKeyAuth
// @Router /requests/mine [get]
func (h *Handler) ListMineHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := respond.Actor(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	requests, err := h.Service.ListMine(r.Context(), actor)
	h.handleServiceResponse(w, r, requests, err, http.StatusOK)
}

// GetHandler lida com a requisição GET /v1/requests/{id}.
// @Summary Obtém uma requisição por ID
// @Tags requests
// @Produce json
// @Param id path int true "ID da requisição"
// @Success 200 {object} domain.StockRequest "Requisição encontrada"
// @Failure 404 {object} domain.ErrorResponse "Requisição não encontrada"
// @Security ApiKeyAuth
// @Router /requests/{id} [get]
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := respond.Actor(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	id, err := respond.PathID(r, "id")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	req, err := h.Service.Get(r.Context(), actor, id)
	h.handleServiceResponse(w, r, req, err, http.StatusOK)
}

// ApproveHandler lida com a requisição POST /v1/requests/{id}/approve.
// @Summary Aprova uma requisição
// @Tags requests
// @Produce json
// @Param id path int true "ID da requisição"
// @Success 200 {object} TransitionResponse "Requisição aprovada"
// @Failure 403 {object} domain.ErrorResponse "Acesso negado"
// @Failure 404 {object} domain.ErrorResponse "Requisição não encontrada"
// @Security ApiKeyAuth
// @Router /requests/{id}/approve [post]
func (h *Handler) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.StatusApproved, h.Service.Approve)
}

// RejectHandler lida com a requisição POST /v1/requests/{id}/reject.
// @Summary Rejeita uma requisição
// @Tags requests
// @Produce json
// @Param id path int true "ID da requisição"
// @Success 200 {object} TransitionResponse "Requisição rejeitada"
// @Failure 403 {object} domain.ErrorResponse "Acesso negado"
// @Failure 404 {object} domain.ErrorResponse "Requisição não encontrada"
// @Security ApiKeyAuth
// @Router /requests/{id}/reject [post]
func (h *Handler) RejectHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.StatusRejected, h.Service.Reject)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, status domain.RequestStatus, apply func(context.Context, domain.ActorContext, int64) error) {
	actor, err := respond.Actor(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	id, err := respond.PathID(r, "id")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	if err := apply(r.Context(), actor, id); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, TransitionResponse{RequestID: id, Status: status}, nil, http.StatusOK)
}

// BulkApproveHandler lida com a requisição POST /v1/requests/bulk-approve.
// @Summary Aprovação consolidada (tudo ou nada)
// @Tags requests
// @Accept json
// @Produce json
// @Param request body domain.BulkApproveInput true "IDs das requisições"
// @Success 200 {object} BulkApproveResponse "Lote aprovado"
// @Failure 400 {object} domain.ErrorResponse "Lote vazio"
// @Failure 409 {object} domain.ErrorResponse "Há requisições inexistentes ou não pendentes"
// @Security ApiKeyAuth
// @Router /requests/bulk-approve [post]
func (h *Handler) BulkApproveHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := respond.Actor(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	var in domain.BulkApproveInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	n, err := h.Service.BulkApprove(r.Context(), actor, in)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, BulkApproveResponse{Approved: n}, nil, http.StatusOK)
}

// ConsolidationHandler lida com a requisição GET /v1/requests/consolidation.
// @Summary Oportunidades de consolidação por fornecedor
// @Tags requests
// @Produce json
// @Success 200 {array} domain.ConsolidationGroup "Grupos com mais de uma requisição pendente"
// @Security ApiKeyAuth
// @Router /requests/consolidation [get]
func (h *Handler) ConsolidationHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := respond.Actor(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	groups, err := h.Consolidation.FindOpportunities(r.Context(), actor)
	h.handleServiceResponse(w, r, groups, err, http.StatusOK)
}
