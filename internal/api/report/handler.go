package report

import (
	"context"
	"net/http"
	"time"

	"gostockflow/internal/api/respond"
	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
	"gostockflow/internal/pkg/clock"
	"gostockflow/internal/pkg/logger"
)

const dateLayout = "2006-01-02"

// ReportService define as consultas de relatório esperadas pelo Handler.
type ReportService interface {
	Summary(ctx context.Context, actor domain.ActorContext) (domain.RequestSummary, error)
	Frequencies(ctx context.Context, actor domain.ActorContext) ([]domain.ItemFrequency, error)
	AuditLogs(ctx context.Context, actor domain.ActorContext, from, to time.Time) ([]domain.AuditEntry, error)
}

// Handler agrupa os relatórios de requisições e auditoria.
type Handler struct {
	Service ReportService
	Clock   clock.Clock
	Logger  logger.Logger
}

func NewHandler(svc ReportService, clk clock.Clock, log logger.Logger) *Handler {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Handler{Service: svc, Clock: clk, Logger: log}
}

// SummaryHandler lida com a requisição GET /v1/reports/requests/summary.
// @Summary Resumo de requisições por estado
// @Tags reports
// @Produce json
// @Success 200 {object} domain.RequestSummary "Contagens por estado"
// @Security ApiKeyAuth
// @Router /reports/requests/summary [get]
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := respond.Actor(r)
	if err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	summary, err := h.Service.Summary(r.Context(), actor)
	respond.ServiceResponse(h.Logger, w, r, summary, err, http.StatusOK)
}

// FrequenciesHandler lida com a requisição GET /v1/reports/requests/frequencies.
// @Summary Frequência de requisições por item (janela recente)
// @Tags reports
// @Produce json
// @Success 200 {array} domain.ItemFrequency "Contagem por item"
// @Security ApiKeyAuth
// @Router /reports/requests/frequencies [get]
func (h *Handler) FrequenciesHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := respond.Actor(r)
	if err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	freqs, err := h.Service.Frequencies(r.Context(), actor)
	respond.ServiceResponse(h.Logger, w, r, freqs, err, http.StatusOK)
}

// AuditLogsHandler lida com a requisição GET /v1/reports/audit-logs.
// Sem parâmetros, cobre os últimos 7 dias; "to" é inclusivo (dia inteiro).
// @Summary Log de auditoria por intervalo de datas
// @Tags reports
// @Produce json
// @Param from query string false "Data inicial (YYYY-MM-DD)"
// @Param to query string false "Data final inclusiva (YYYY-MM-DD)"
// @Success 200 {array} domain.AuditEntry "Entradas do log"
// @Failure 400 {object} domain.ErrorResponse "Datas inválidas"
// @Security ApiKeyAuth
// @Router /reports/audit-logs [get]
func (h *Handler) AuditLogsHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := respond.Actor(r)
	if err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	today := h.Clock.Now().Truncate(24 * time.Hour)
	from, err := parseDate(r.URL.Query().Get("from"), today.AddDate(0, 0, -7))
	if err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"), today)
	if err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	entries, err := h.Service.AuditLogs(r.Context(), actor, from, to.AddDate(0, 0, 1))
	respond.ServiceResponse(h.Logger, w, r, entries, err, http.StatusOK)
}

func parseDate(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, apperror.NewValidationError("Datas devem estar no formato YYYY-MM-DD.")
	}
	return t, nil
}
