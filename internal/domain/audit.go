package domain

import "time"

// ActionKind é o tipo de ação registrado no log de auditoria.
type ActionKind string

const (
	ActionCreate      ActionKind = "CREATE"
	ActionApprove     ActionKind = "APPROVE"
	ActionReject      ActionKind = "REJECT"
	ActionBulkApprove ActionKind = "BULK_APPROVE"
)

// TargetStockRequests é o alvo das ações sobre requisições de estoque.
const TargetStockRequests = "stock_requests"

// AuditEntry é um registro do log de auditoria.
type AuditEntry struct {
	ID          int64      `json:"id"`
	ActorID     int64      `json:"actor_id"`
	ActionKind  ActionKind `json:"action"`
	TargetKind  string     `json:"target_table"`
	TargetID    int64      `json:"target_id"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}
