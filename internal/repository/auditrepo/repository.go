package auditrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
	"gostockflow/internal/pkg/clock"
	"gostockflow/internal/pkg/logger"
)

// DefaultListLimit limita a listagem quando o chamador não informa limite.
const DefaultListLimit = 500

type auditRecord struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	UserID      int64     `gorm:"column:user_id"`
	Action      string    `gorm:"column:action"`
	TargetTable string    `gorm:"column:target_table"`
	TargetID    int64     `gorm:"column:target_id"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime:false"`
}

func (auditRecord) TableName() string { return "audit_logs" }

// AuditRepository grava e lista o log de auditoria (tabela audit_logs).
type AuditRepository struct {
	DB        *gorm.DB
	DBTimeout time.Duration
	clock     clock.Clock
	logger    logger.Logger
}

func NewAuditRepository(db *gorm.DB, dbTimeout time.Duration, clk clock.Clock, log logger.Logger) *AuditRepository {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &AuditRepository{DB: db, DBTimeout: dbTimeout, clock: clk, logger: log}
}

// Record grava uma entrada. CreatedAt vazio recebe o horário atual.
func (r *AuditRepository) Record(ctx context.Context, entry domain.AuditEntry) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.clock.Now()
	}
	rec := auditRecord{
		UserID:      entry.ActorID,
		Action:      string(entry.ActionKind),
		TargetTable: entry.TargetKind,
		TargetID:    entry.TargetID,
		Description: entry.Description,
		CreatedAt:   entry.CreatedAt,
	}
	if err := r.DB.WithContext(ctxTimeout).Create(&rec).Error; err != nil {
		r.logger.Error("Falha ao gravar log de auditoria.", err)
		return apperror.NewPersistenceError("Falha ao gravar log de auditoria", err)
	}
	return nil
}

// List retorna as entradas em [from, to), mais recentes primeiro.
func (r *AuditRepository) List(ctx context.Context, from, to time.Time, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var rows []auditRecord
	err := r.DB.WithContext(ctxTimeout).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		r.logger.Error("Falha ao listar log de auditoria.", err)
		return nil, apperror.NewPersistenceError("Falha ao listar log de auditoria", err)
	}

	out := make([]domain.AuditEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.AuditEntry{
			ID:          row.ID,
			ActorID:     row.UserID,
			ActionKind:  domain.ActionKind(row.Action),
			TargetKind:  row.TargetTable,
			TargetID:    row.TargetID,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
		})
	}
	return out, nil
}
