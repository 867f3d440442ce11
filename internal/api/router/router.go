package router

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"gostockflow/internal/api/item"
	"gostockflow/internal/api/report"
	"gostockflow/internal/api/request"
	"gostockflow/internal/pkg/authz"
	"gostockflow/internal/pkg/logger"
	"gostockflow/internal/pkg/middleware"
)

// Deps reúne os Handlers e middlewares já inicializados por injeção de dependências.
type Deps struct {
	Requests   *request.Handler
	Items      *item.Handler
	Reports    *report.Handler
	TokenSvc   middleware.TokenService
	Authorizer authz.Authorizer
	// RateLimit é o limitador global (redis ou memória); nil desliga.
	RateLimit func(http.Handler) http.Handler
	Metrics   http.Handler
	Logger    logger.Logger
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	// --- 1. Rotas públicas ---
	mux.HandleFunc("GET /ping", PingHandler)
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	auth := middleware.NewAuthMiddleware(d.TokenSvc)
	guard := func(object, action string, h http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.PermissionMiddleware(d.Authorizer, object, action)(h))
	}

	// --- 2. Requisições de estoque (v1) ---
	mux.HandleFunc("POST /v1/requests", guard(authz.ObjectStockRequest, authz.ActionCreate, d.Requests.SubmitHandler))
	mux.HandleFunc("GET /v1/requests/pending", guard(authz.ObjectStockRequest, authz.ActionView, d.Requests.ListPendingHandler))
	mux.HandleFunc("GET /v1/requests/mine", guard(authz.ObjectStockRequest, authz.ActionViewOwn, d.Requests.ListMineHandler))
	// A visibilidade por dono é decidida no serviço.
	mux.HandleFunc("GET /v1/requests/{id}", auth(d.Requests.GetHandler))
	mux.HandleFunc("POST /v1/requests/{id}/approve", guard(authz.ObjectStockRequest, authz.ActionApprove, d.Requests.ApproveHandler))
	mux.HandleFunc("POST /v1/requests/{id}/reject", guard(authz.ObjectStockRequest, authz.ActionReject, d.Requests.RejectHandler))
	mux.HandleFunc("POST /v1/requests/bulk-approve", guard(authz.ObjectStockRequest, authz.ActionApprove, d.Requests.BulkApproveHandler))
	mux.HandleFunc("GET /v1/requests/consolidation", guard(authz.ObjectConsolidation, authz.ActionView, d.Requests.ConsolidationHandler))

	// --- 3. Itens ---
	mux.HandleFunc("GET /v1/items/{id}/recommendation", guard(authz.ObjectRecommendation, authz.ActionView, d.Items.RecommendationHandler))

	// --- 4. Relatórios ---
	mux.HandleFunc("GET /v1/reports/requests/summary", guard(authz.ObjectReport, authz.ActionView, d.Reports.SummaryHandler))
	mux.HandleFunc("GET /v1/reports/requests/frequencies", guard(authz.ObjectReport, authz.ActionView, d.Reports.FrequenciesHandler))
	mux.HandleFunc("GET /v1/reports/audit-logs", guard(authz.ObjectAuditLog, authz.ActionView, d.Reports.AuditLogsHandler))

	// --- 5. Middlewares globais ---
	var handler http.Handler = mux
	if d.RateLimit != nil {
		handler = d.RateLimit(handler)
	}
	handler = middleware.AccessLog(d.Logger)(handler)
	return middleware.RequestID(handler)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}
