package requestservice

import (
	"context"
	"fmt"
	"time"

	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
	"gostockflow/internal/pkg/authz"
	"gostockflow/internal/pkg/clock"
	"gostockflow/internal/pkg/logger"
	"gostockflow/internal/pkg/metrics"
	"gostockflow/internal/pkg/notify"
	"gostockflow/internal/scoring"
)

// DefaultFrequencyWindow é a janela usada para contar pedidos recentes do mesmo item.
const DefaultFrequencyWindow = 30 * 24 * time.Hour

// RequestStore define o contrato que o Serviço espera da camada de Persistência.
// O retorno bool false significa "nada foi alterado" (não encontrado ou conjunto inválido).
type RequestStore interface {
	Submit(ctx context.Context, itemID, requesterID int64, quantity, priorityScore int) (int64, error)
	FetchPending(ctx context.Context) ([]domain.StockRequest, error)
	FetchByRequester(ctx context.Context, userID int64) ([]domain.StockRequest, error)
	FetchByID(ctx context.Context, id int64) (domain.StockRequest, bool, error)
	Approve(ctx context.Context, id, managerID int64) (bool, error)
	Reject(ctx context.Context, id, managerID int64) (bool, error)
	BulkApprove(ctx context.Context, ids []int64, managerID int64) ([]int64, error)
	CountRecentByItem(ctx context.Context, itemID int64, since time.Time) (int, error)
	FrequenciesSince(ctx context.Context, since time.Time) ([]domain.ItemFrequency, error)
	Summary(ctx context.Context) (domain.RequestSummary, error)
}

// InventoryReader fornece o snapshot do item no momento da submissão.
type InventoryReader interface {
	Snapshot(ctx context.Context, itemID int64) (domain.InventoryItemSnapshot, error)
}

// AuditSink grava e consulta o log de auditoria.
type AuditSink interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
	List(ctx context.Context, from, to time.Time, limit int) ([]domain.AuditEntry, error)
}

// Options agrupa os parâmetros de negócio configuráveis.
type Options struct {
	// MaxQuantity limita a quantidade por requisição; 0 desliga o limite.
	MaxQuantity     int
	FrequencyWindow time.Duration
	// Legacy usa a fórmula simplificada quantidade × peso.
	Legacy bool
}

// Deps reúne as dependências do serviço (injeção manual no main.go).
type Deps struct {
	Store      RequestStore
	Inventory  InventoryReader
	Audit      AuditSink
	Notifier   notify.Notifier
	Authorizer authz.Authorizer
	Scorer     *scoring.Scorer
	Clock      clock.Clock
	Metrics    *metrics.Metrics
	Logger     logger.Logger
}

// Service orquestra o ciclo de vida das requisições de estoque.
type Service struct {
	store      RequestStore
	inventory  InventoryReader
	audit      AuditSink
	notifier   notify.Notifier
	authorizer authz.Authorizer
	scorer     *scoring.Scorer
	clock      clock.Clock
	metrics    *metrics.Metrics
	logger     logger.Logger
	opts       Options
}

// NewService cria e retorna uma nova instância do Serviço de Requisições.
func NewService(deps Deps, opts Options) *Service {
	if deps.Scorer == nil {
		deps.Scorer = scoring.NewScorer(nil)
	}
	if deps.Clock == nil {
		deps.Clock = clock.RealClock{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewLogNotifier(deps.Logger)
	}
	if opts.FrequencyWindow <= 0 {
		opts.FrequencyWindow = DefaultFrequencyWindow
	}
	return &Service{
		store:      deps.Store,
		inventory:  deps.Inventory,
		audit:      deps.Audit,
		notifier:   deps.Notifier,
		authorizer: deps.Authorizer,
		scorer:     deps.Scorer,
		clock:      deps.Clock,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		opts:       opts,
	}
}

// Submit valida, pontua e grava uma nova requisição Pending.
func (s *Service) Submit(ctx context.Context, actor domain.ActorContext, in domain.SubmitInput) (domain.StockRequest, error) {
	s.logger.Debug("Iniciando submissão de requisição no serviço.", map[string]interface{}{
		"user_id":  actor.UserID,
		"item_id":  in.ItemID,
		"quantity": in.Quantity,
		"urgency":  string(in.Urgency),
	})

	if err := s.authorizer.Authorize(actor, authz.ObjectStockRequest, authz.ActionCreate); err != nil {
		return domain.StockRequest{}, err
	}
	if in.ItemID <= 0 {
		s.logger.Warn("Submissão rejeitada: item inválido.", map[string]interface{}{"item_id": in.ItemID})
		return domain.StockRequest{}, apperror.NewValidationError("O item da requisição é obrigatório.")
	}
	if in.Quantity <= 0 {
		s.logger.Warn("Submissão rejeitada: quantidade inválida.", map[string]interface{}{"quantity": in.Quantity})
		return domain.StockRequest{}, apperror.NewValidationError("A quantidade deve ser positiva.")
	}
	if s.opts.MaxQuantity > 0 && in.Quantity > s.opts.MaxQuantity {
		s.logger.Warn("Submissão rejeitada: quantidade acima do limite.", map[string]interface{}{
			"quantity": in.Quantity,
			"max":      s.opts.MaxQuantity,
		})
		return domain.StockRequest{}, apperror.NewValidationError(fmt.Sprintf("A quantidade máxima por requisição é %d.", s.opts.MaxQuantity))
	}
	urgency := domain.ParseUrgency(string(in.Urgency))

	snapshot, err := s.inventory.Snapshot(ctx, in.ItemID)
	if err != nil {
		return domain.StockRequest{}, err
	}

	frequency, err := s.store.CountRecentByItem(ctx, in.ItemID, s.clock.Now().Add(-s.opts.FrequencyWindow))
	if err != nil {
		s.logger.Warn("Falha ao contar frequência do item, usando 0.", map[string]interface{}{
			"item_id": in.ItemID,
			"error":   err.Error(),
		})
		frequency = 0
	}

	score := s.score(in.Quantity, urgency, &snapshot, frequency)

	id, err := s.store.Submit(ctx, in.ItemID, actor.UserID, in.Quantity, score)
	if err != nil {
		s.logger.Error("Falha ao gravar requisição no repositório.", err)
		return domain.StockRequest{}, fmt.Errorf("falha ao submeter requisição: %w", err)
	}

	s.record(ctx, actor.UserID, domain.ActionCreate, id, fmt.Sprintf("Created stock request for item %d (qty %d, %s)", in.ItemID, in.Quantity, urgency))
	s.metrics.RequestSubmitted(string(urgency), score)

	s.logger.Info("Requisição submetida com sucesso.", map[string]interface{}{
		"request_id":     id,
		"priority_score": score,
	})

	created, found, err := s.store.FetchByID(ctx, id)
	if err != nil || !found {
		// A requisição já está gravada; devolve o que sabemos.
		return domain.StockRequest{
			ID:            id,
			ItemID:        in.ItemID,
			RequestedBy:   actor.UserID,
			Quantity:      in.Quantity,
			PriorityScore: score,
			Status:        domain.StatusPending,
			CreatedAt:     s.clock.Now(),
		}, nil
	}
	return created, nil
}

func (s *Service) score(quantity int, urgency domain.Urgency, snapshot *domain.InventoryItemSnapshot, frequency int) int {
	if s.opts.Legacy {
		return scoring.LegacyScore(quantity, urgency)
	}
	return s.scorer.Score(quantity, urgency, snapshot, frequency)
}

// ListPending retorna a fila de aprovação ordenada por prioridade.
func (s *Service) ListPending(ctx context.Context, actor domain.ActorContext) ([]domain.StockRequest, error) {
	if err := s.authorizer.Authorize(actor, authz.ObjectStockRequest, authz.ActionView); err != nil {
		return nil, err
	}
	requests, err := s.store.FetchPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar requisições pendentes: %w", err)
	}
	return requests, nil
}

// ListMine retorna as requisições do próprio ator.
func (s *Service) ListMine(ctx context.Context, actor domain.ActorContext) ([]domain.StockRequest, error) {
	if err := s.authorizer.Authorize(actor, authz.ObjectStockRequest, authz.ActionViewOwn); err != nil {
		return nil, err
	}
	requests, err := s.store.FetchByRequester(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar requisições do usuário: %w", err)
	}
	return requests, nil
}

// Get busca uma requisição. Quem só pode ver as próprias recebe NotFound para as demais.
func (s *Service) Get(ctx context.Context, actor domain.ActorContext, id int64) (domain.StockRequest, error) {
	canViewAll := s.authorizer.Can(actor.Role, authz.ObjectStockRequest, authz.ActionView)
	if !canViewAll {
		if err := s.authorizer.Authorize(actor, authz.ObjectStockRequest, authz.ActionViewOwn); err != nil {
			return domain.StockRequest{}, err
		}
	} else if actor.UserID <= 0 {
		return domain.StockRequest{}, apperror.NewUnauthorizedError("ator sem identificação")
	}

	req, found, err := s.store.FetchByID(ctx, id)
	if err != nil {
		return domain.StockRequest{}, fmt.Errorf("falha ao buscar requisição: %w", err)
	}
	if !found || (!canViewAll && req.RequestedBy != actor.UserID) {
		return domain.StockRequest{}, apperror.NewNotFoundError(fmt.Sprintf("requisição %d", id))
	}
	return req, nil
}

// Approve aprova uma requisição. A notificação é assíncrona e não afeta o resultado.
func (s *Service) Approve(ctx context.Context, actor domain.ActorContext, id int64) error {
	if err := s.authorizer.Authorize(actor, authz.ObjectStockRequest, authz.ActionApprove); err != nil {
		return err
	}
	if id <= 0 {
		return apperror.NewValidationError("Identificador de requisição inválido.")
	}

	ok, err := s.store.Approve(ctx, id, actor.UserID)
	if err != nil {
		s.logger.Error("Falha ao aprovar requisição no repositório.", err)
		return fmt.Errorf("falha ao aprovar requisição: %w", err)
	}
	if !ok {
		s.logger.Warn("Aprovação de requisição inexistente.", map[string]interface{}{"request_id": id})
		return apperror.NewNotFoundError(fmt.Sprintf("requisição %d", id))
	}

	s.record(ctx, actor.UserID, domain.ActionApprove, id, "Approved stock request")
	s.metrics.Transition(string(domain.StatusApproved), "single", 1)
	s.notifyApproved(ctx, id, actor.UserID)

	s.logger.Info("Requisição aprovada.", map[string]interface{}{"request_id": id, "manager_id": actor.UserID})
	return nil
}

// Reject rejeita uma requisição.
func (s *Service) Reject(ctx context.Context, actor domain.ActorContext, id int64) error {
	if err := s.authorizer.Authorize(actor, authz.ObjectStockRequest, authz.ActionReject); err != nil {
		return err
	}
	if id <= 0 {
		return apperror.NewValidationError("Identificador de requisição inválido.")
	}

	ok, err := s.store.Reject(ctx, id, actor.UserID)
	if err != nil {
		s.logger.Error("Falha ao rejeitar requisição no repositório.", err)
		return fmt.Errorf("falha ao rejeitar requisição: %w", err)
	}
	if !ok {
		s.logger.Warn("Rejeição de requisição inexistente.", map[string]interface{}{"request_id": id})
		return apperror.NewNotFoundError(fmt.Sprintf("requisição %d", id))
	}

	s.record(ctx, actor.UserID, domain.ActionReject, id, "Rejected stock request")
	s.metrics.Transition(string(domain.StatusRejected), "single", 1)
	if err := s.notifier.NotifyRejected(ctx, id, actor.UserID); err != nil {
		s.logger.Warn("Falha ao notificar rejeição.", map[string]interface{}{"request_id": id, "error": err.Error()})
	}

	s.logger.Info("Requisição rejeitada.", map[string]interface{}{"request_id": id, "manager_id": actor.UserID})
	return nil
}

// BulkApprove aprova todas as requisições ou nenhuma.
func (s *Service) BulkApprove(ctx context.Context, actor domain.ActorContext, in domain.BulkApproveInput) (int, error) {
	if err := s.authorizer.Authorize(actor, authz.ObjectStockRequest, authz.ActionApprove); err != nil {
		return 0, err
	}
	if len(in.RequestIDs) == 0 {
		return 0, apperror.NewValidationError("Informe ao menos uma requisição para aprovação em lote.")
	}

	ids, err := s.store.BulkApprove(ctx, in.RequestIDs, actor.UserID)
	if err != nil {
		s.logger.Error("Falha na aprovação em lote.", err)
		return 0, fmt.Errorf("falha na aprovação em lote: %w", err)
	}
	if len(ids) == 0 {
		s.logger.Warn("Aprovação em lote recusada: há requisições inexistentes ou não pendentes.", map[string]interface{}{
			"request_ids": in.RequestIDs,
		})
		return 0, apperror.NewConflictError("todas as requisições do lote devem existir e estar pendentes")
	}

	for _, id := range ids {
		s.record(ctx, actor.UserID, domain.ActionBulkApprove, id, fmt.Sprintf("Bulk approved stock request (%d in batch)", len(ids)))
		s.notifyApproved(ctx, id, actor.UserID)
	}
	s.metrics.BulkApproved(len(ids))

	s.logger.Info("Aprovação em lote concluída.", map[string]interface{}{"count": len(ids), "manager_id": actor.UserID})
	return len(ids), nil
}

// Summary retorna a contagem por status.
func (s *Service) Summary(ctx context.Context, actor domain.ActorContext) (domain.RequestSummary, error) {
	if err := s.authorizer.Authorize(actor, authz.ObjectReport, authz.ActionView); err != nil {
		return domain.RequestSummary{}, err
	}
	summary, err := s.store.Summary(ctx)
	if err != nil {
		return domain.RequestSummary{}, fmt.Errorf("falha ao gerar resumo de requisições: %w", err)
	}
	return summary, nil
}

// Frequencies retorna a contagem de requisições por item na janela configurada.
func (s *Service) Frequencies(ctx context.Context, actor domain.ActorContext) ([]domain.ItemFrequency, error) {
	if err := s.authorizer.Authorize(actor, authz.ObjectReport, authz.ActionView); err != nil {
		return nil, err
	}
	freqs, err := s.store.FrequenciesSince(ctx, s.clock.Now().Add(-s.opts.FrequencyWindow))
	if err != nil {
		return nil, fmt.Errorf("falha ao calcular frequências: %w", err)
	}
	return freqs, nil
}

// AuditLogs lista o log de auditoria em [from, to).
func (s *Service) AuditLogs(ctx context.Context, actor domain.ActorContext, from, to time.Time) ([]domain.AuditEntry, error) {
	if err := s.authorizer.Authorize(actor, authz.ObjectAuditLog, authz.ActionView); err != nil {
		return nil, err
	}
	if !to.After(from) {
		return nil, apperror.NewValidationError("O fim do intervalo deve ser posterior ao início.")
	}
	entries, err := s.audit.List(ctx, from, to, 0)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar log de auditoria: %w", err)
	}
	return entries, nil
}

// record grava a auditoria; uma falha aqui não desfaz a transição já confirmada.
func (s *Service) record(ctx context.Context, actorID int64, action domain.ActionKind, targetID int64, description string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, domain.AuditEntry{
		ActorID:     actorID,
		ActionKind:  action,
		TargetKind:  domain.TargetStockRequests,
		TargetID:    targetID,
		Description: description,
	})
	if err != nil {
		s.logger.Warn("Falha ao registrar auditoria.", map[string]interface{}{
			"action":    string(action),
			"target_id": targetID,
			"error":     err.Error(),
		})
	}
}

func (s *Service) notifyApproved(ctx context.Context, id, managerID int64) {
	if err := s.notifier.NotifyApproved(ctx, id, managerID); err != nil {
		s.logger.Warn("Falha ao notificar aprovação.", map[string]interface{}{"request_id": id, "error": err.Error()})
	}
}
