package requestrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
	"gostockflow/internal/pkg/cache"
	"gostockflow/internal/pkg/clock"
	"gostockflow/internal/pkg/database"
	"gostockflow/internal/pkg/logger"
)

const summaryCacheKey = "stock_requests:summary"

// errAbort sinaliza, de dentro da transação, uma condição esperada (não encontrado,
// lote inválido) que deve desfazer a transação sem virar erro de persistência.
var errAbort = errors.New("operação abortada")

// SummaryCache é o subconjunto do cache usado para o resumo de requisições.
type SummaryCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// requestRecord mapeia a tabela stock_requests.
type requestRecord struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	ItemID        int64      `gorm:"column:item_id"`
	RequestedBy   int64      `gorm:"column:requested_by"`
	Quantity      int        `gorm:"column:quantity"`
	PriorityScore int        `gorm:"column:priority_score"`
	Status        string     `gorm:"column:status"`
	ManagerID     *int64     `gorm:"column:manager_id"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt     *time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (requestRecord) TableName() string { return "stock_requests" }

// requestRow é a leitura com junções (nome do item e do solicitante).
// As colunas ficam declaradas aqui: o gorm não mapeia campos de struct não exportada embutida.
type requestRow struct {
	ID            int64      `gorm:"column:id"`
	ItemID        int64      `gorm:"column:item_id"`
	RequestedBy   int64      `gorm:"column:requested_by"`
	Quantity      int        `gorm:"column:quantity"`
	PriorityScore int        `gorm:"column:priority_score"`
	Status        string     `gorm:"column:status"`
	ManagerID     *int64     `gorm:"column:manager_id"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     *time.Time `gorm:"column:updated_at"`
	ItemName      string     `gorm:"column:item_name"`
	RequesterName string     `gorm:"column:requester_name"`
}

func (r requestRow) toDomain() domain.StockRequest {
	return domain.StockRequest{
		ID:            r.ID,
		ItemID:        r.ItemID,
		RequestedBy:   r.RequestedBy,
		Quantity:      r.Quantity,
		PriorityScore: r.PriorityScore,
		Status:        domain.RequestStatus(r.Status),
		ManagerID:     r.ManagerID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		ItemName:      r.ItemName,
		RequesterName: r.RequesterName,
	}
}

const selectRequests = `
	SELECT sr.id, sr.item_id, sr.requested_by, sr.quantity, sr.priority_score, sr.status,
	       sr.manager_id, sr.created_at, sr.updated_at,
	       COALESCE(i.name, '') AS item_name, COALESCE(u.username, '') AS requester_name
	FROM stock_requests sr
	LEFT JOIN inventory_items i ON i.id = sr.item_id
	LEFT JOIN users u ON u.id = sr.requested_by`

// RequestRepository é o Request Store sobre gorm (Postgres em produção).
type RequestRepository struct {
	DB           *gorm.DB
	DBTimeout    time.Duration
	CacheTimeout time.Duration

	cache  SummaryCache
	clock  clock.Clock
	logger logger.Logger
}

// NewRequestRepository cria o repositório. cacheClient pode ser nil (sem cache do resumo).
func NewRequestRepository(db *gorm.DB, cacheClient SummaryCache, dbTimeout, cacheTimeout time.Duration, clk clock.Clock, log logger.Logger) *RequestRepository {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &RequestRepository{
		DB:           db,
		DBTimeout:    dbTimeout,
		CacheTimeout: cacheTimeout,
		cache:        cacheClient,
		clock:        clk,
		logger:       log,
	}
}

func (r *RequestRepository) lockForUpdate() bool {
	return database.IsPostgres(r.DB)
}

// Submit cria a requisição sempre como Pending e retorna o id gerado.
func (r *RequestRepository) Submit(ctx context.Context, itemID, requesterID int64, quantity, priorityScore int) (int64, error) {
	if itemID <= 0 || requesterID <= 0 {
		return 0, apperror.NewValidationError("item_id e requested_by devem ser inteiros positivos.")
	}
	if quantity <= 0 {
		return 0, apperror.NewValidationError("quantity deve ser maior que zero.")
	}
	if priorityScore < 1 {
		return 0, apperror.NewValidationError("priority_score deve ser maior ou igual a 1.")
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rec := requestRecord{
		ItemID:        itemID,
		RequestedBy:   requesterID,
		Quantity:      quantity,
		PriorityScore: priorityScore,
		Status:        string(domain.StatusPending),
		CreatedAt:     r.clock.Now(),
	}
	if err := r.DB.WithContext(ctxTimeout).Create(&rec).Error; err != nil {
		r.logger.Error("Falha ao inserir requisição de estoque.", err)
		return 0, apperror.NewPersistenceError("Falha ao inserir requisição", err)
	}

	r.invalidateSummary(ctx)
	r.logger.Debug("Requisição de estoque inserida.", map[string]interface{}{"request_id": rec.ID, "item_id": itemID, "priority_score": priorityScore})
	return rec.ID, nil
}

// FetchPending lista as pendentes por prioridade desc; empate pela criação mais antiga, depois id.
func (r *RequestRepository) FetchPending(ctx context.Context) ([]domain.StockRequest, error) {
	return r.query(ctx, "Falha ao listar requisições pendentes",
		selectRequests+` WHERE sr.status = ? ORDER BY sr.priority_score DESC, sr.created_at ASC, sr.id ASC`,
		string(domain.StatusPending))
}

// FetchByRequester lista as requisições de um usuário, mais recentes primeiro.
func (r *RequestRepository) FetchByRequester(ctx context.Context, userID int64) ([]domain.StockRequest, error) {
	return r.query(ctx, "Falha ao listar requisições do usuário",
		selectRequests+` WHERE sr.requested_by = ? ORDER BY sr.created_at DESC, sr.id DESC`,
		userID)
}

// FetchByID retorna (requisição, true) ou (zero, false) quando não existe.
func (r *RequestRepository) FetchByID(ctx context.Context, id int64) (domain.StockRequest, bool, error) {
	rows, err := r.query(ctx, "Falha ao buscar requisição", selectRequests+` WHERE sr.id = ?`, id)
	if err != nil {
		return domain.StockRequest{}, false, err
	}
	if len(rows) == 0 {
		return domain.StockRequest{}, false, nil
	}
	return rows[0], true, nil
}

func (r *RequestRepository) query(ctx context.Context, failMsg, sql string, args ...interface{}) ([]domain.StockRequest, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var rows []requestRow
	if err := r.DB.WithContext(ctxTimeout).Raw(sql, args...).Scan(&rows).Error; err != nil {
		r.logger.Error(failMsg, err)
		return nil, apperror.NewPersistenceError(failMsg, err)
	}

	out := make([]domain.StockRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Approve marca a requisição como Approved dentro de uma transação, com leitura
// bloqueante da linha (FOR UPDATE no Postgres). Retorna false se ela não existe.
// O estoque do item não é alterado: aprovação não é atendimento.
func (r *RequestRepository) Approve(ctx context.Context, id, managerID int64) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := r.DB.WithContext(ctxTimeout).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		q := tx.Table("stock_requests").Where("id = ?", id)
		if r.lockForUpdate() {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return errAbort
		}

		return tx.Exec(
			`UPDATE stock_requests SET status = ?, manager_id = ?, updated_at = ? WHERE id = ?`,
			string(domain.StatusApproved), managerID, r.clock.Now(), id,
		).Error
	})

	if errors.Is(err, errAbort) {
		r.logger.Info("Aprovação ignorada: requisição não encontrada.", map[string]interface{}{"request_id": id})
		return false, nil
	}
	if err != nil {
		r.logger.Error("Falha na transação de aprovação.", err)
		return false, apperror.NewPersistenceError("Falha ao aprovar requisição", err)
	}

	r.invalidateSummary(ctx)
	return true, nil
}

// Reject marca a requisição como Rejected num único UPDATE atômico.
func (r *RequestRepository) Reject(ctx context.Context, id, managerID int64) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result := r.DB.WithContext(ctxTimeout).Exec(
		`UPDATE stock_requests SET status = ?, manager_id = ?, updated_at = ? WHERE id = ?`,
		string(domain.StatusRejected), managerID, r.clock.Now(), id,
	)
	if result.Error != nil {
		r.logger.Error("Falha ao rejeitar requisição.", result.Error)
		return false, apperror.NewPersistenceError("Falha ao rejeitar requisição", result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Info("Rejeição ignorada: requisição não encontrada.", map[string]interface{}{"request_id": id})
		return false, nil
	}

	r.invalidateSummary(ctx)
	return true, nil
}

// BulkApprove aprova todas as requisições do conjunto ou nenhuma e retorna os ids
// distintos aprovados. Ids repetidos contam uma vez; lista vazia significa que nada
// foi aprovado (conjunto vazio, id inexistente ou requisição não pendente).
func (r *RequestRepository) BulkApprove(ctx context.Context, ids []int64, managerID int64) ([]int64, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return nil, nil
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := r.DB.WithContext(ctxTimeout).Transaction(func(tx *gorm.DB) error {
		var pending []int64
		q := tx.Table("stock_requests").Where("id IN ? AND status = ?", unique, string(domain.StatusPending))
		if r.lockForUpdate() {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Pluck("id", &pending).Error; err != nil {
			return err
		}
		if len(pending) != len(unique) {
			return errAbort
		}

		result := tx.Exec(
			`UPDATE stock_requests SET status = ?, manager_id = ?, updated_at = ? WHERE id IN ? AND status = ?`,
			string(domain.StatusApproved), managerID, r.clock.Now(), unique, string(domain.StatusPending),
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(unique)) {
			return errAbort
		}
		return nil
	})

	if errors.Is(err, errAbort) {
		r.logger.Warn("Aprovação em lote abortada: nem todas as requisições estão pendentes.", map[string]interface{}{"request_ids": unique})
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Falha na transação de aprovação em lote.", err)
		return nil, apperror.NewPersistenceError("Falha ao aprovar requisições em lote", err)
	}

	r.invalidateSummary(ctx)
	return unique, nil
}

// CountRecentByItem conta as requisições do item criadas a partir de since.
func (r *RequestRepository) CountRecentByItem(ctx context.Context, itemID int64, since time.Time) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int64
	err := r.DB.WithContext(ctxTimeout).Raw(
		`SELECT COUNT(*) FROM stock_requests WHERE item_id = ? AND created_at >= ?`, itemID, since,
	).Scan(&count).Error
	if err != nil {
		r.logger.Error("Falha ao contar requisições recentes do item.", err)
		return 0, apperror.NewPersistenceError("Falha ao calcular frequência do item", err)
	}
	return int(count), nil
}

// FrequenciesSince agrupa por item as requisições criadas a partir de since.
func (r *RequestRepository) FrequenciesSince(ctx context.Context, since time.Time) ([]domain.ItemFrequency, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var rows []struct {
		ItemID int64 `gorm:"column:item_id"`
		Count  int   `gorm:"column:request_count"`
	}
	err := r.DB.WithContext(ctxTimeout).Raw(`
		SELECT item_id, COUNT(*) AS request_count
		FROM stock_requests
		WHERE created_at >= ?
		GROUP BY item_id
		ORDER BY request_count DESC, item_id ASC`, since,
	).Scan(&rows).Error
	if err != nil {
		r.logger.Error("Falha ao calcular frequências.", err)
		return nil, apperror.NewPersistenceError("Falha ao calcular frequências", err)
	}

	out := make([]domain.ItemFrequency, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ItemFrequency{ItemID: row.ItemID, Count: row.Count})
	}
	return out, nil
}

// PendingWithSupplier lista as pendentes cujo item tem fornecedor, na ordem de prioridade.
func (r *RequestRepository) PendingWithSupplier(ctx context.Context) ([]domain.PendingSupplierRow, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var rows []struct {
		RequestID     int64  `gorm:"column:request_id"`
		Quantity      int    `gorm:"column:quantity"`
		PriorityScore int    `gorm:"column:priority_score"`
		SupplierID    int64  `gorm:"column:supplier_id"`
		SupplierName  string `gorm:"column:supplier_name"`
		ItemName      string `gorm:"column:item_name"`
	}
	err := r.DB.WithContext(ctxTimeout).Raw(`
		SELECT sr.id AS request_id, sr.quantity, sr.priority_score,
		       s.id AS supplier_id, s.name AS supplier_name, i.name AS item_name
		FROM stock_requests sr
		JOIN inventory_items i ON i.id = sr.item_id
		JOIN suppliers s ON s.id = i.supplier_id
		WHERE sr.status = ?
		ORDER BY sr.priority_score DESC, sr.created_at ASC, sr.id ASC`, string(domain.StatusPending),
	).Scan(&rows).Error
	if err != nil {
		r.logger.Error("Falha ao listar pendentes por fornecedor.", err)
		return nil, apperror.NewPersistenceError("Falha ao listar pendentes por fornecedor", err)
	}

	out := make([]domain.PendingSupplierRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.PendingSupplierRow{
			RequestID:     row.RequestID,
			Quantity:      row.Quantity,
			PriorityScore: row.PriorityScore,
			SupplierID:    row.SupplierID,
			SupplierName:  row.SupplierName,
			ItemName:      row.ItemName,
		})
	}
	return out, nil
}

// Summary conta as requisições por estado (cache-aside no Redis).
func (r *RequestRepository) Summary(ctx context.Context) (domain.RequestSummary, error) {
	if summary, ok := r.cachedSummary(ctx); ok {
		return summary, nil
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var rows []struct {
		Status string `gorm:"column:status"`
		Count  int    `gorm:"column:request_count"`
	}
	err := r.DB.WithContext(ctxTimeout).Raw(
		`SELECT status, COUNT(*) AS request_count FROM stock_requests GROUP BY status`,
	).Scan(&rows).Error
	if err != nil {
		r.logger.Error("Falha ao calcular resumo de requisições.", err)
		return domain.RequestSummary{}, apperror.NewPersistenceError("Falha ao calcular resumo", err)
	}

	var summary domain.RequestSummary
	for _, row := range rows {
		summary.Total += row.Count
		switch domain.RequestStatus(row.Status) {
		case domain.StatusPending:
			summary.Pending = row.Count
		case domain.StatusApproved:
			summary.Approved = row.Count
		case domain.StatusRejected:
			summary.Rejected = row.Count
		case domain.StatusCompleted:
			summary.Completed = row.Count
		}
	}

	r.storeSummary(ctx, summary)
	return summary, nil
}

func (r *RequestRepository) cachedSummary(ctx context.Context) (domain.RequestSummary, bool) {
	if r.cache == nil {
		return domain.RequestSummary{}, false
	}
	raw, err := r.cache.Get(ctx, summaryCacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			r.logger.Warn("Falha ao ler resumo do cache.", map[string]interface{}{"error": err.Error()})
		}
		return domain.RequestSummary{}, false
	}

	var summary domain.RequestSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		r.logger.Warn("Resumo em cache corrompido, descartando.", map[string]interface{}{"error": err.Error()})
		return domain.RequestSummary{}, false
	}
	r.logger.Debug("Resumo servido pelo cache.", nil)
	return summary, true
}

func (r *RequestRepository) storeSummary(ctx context.Context, summary domain.RequestSummary) {
	if r.cache == nil {
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, summaryCacheKey, payload, r.CacheTimeout); err != nil {
		r.logger.Warn("Falha ao gravar resumo no cache.", map[string]interface{}{"error": err.Error()})
	}
}

func (r *RequestRepository) invalidateSummary(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, summaryCacheKey); err != nil {
		r.logger.Warn("Falha ao invalidar resumo no cache.", map[string]interface{}{"error": err.Error()})
	}
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

