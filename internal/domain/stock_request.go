package domain

import "time"

// RequestStatus é o estado de uma requisição de estoque.
type RequestStatus string

const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
	// StatusCompleted aparece apenas nos relatórios; nenhuma transição o produz.
	StatusCompleted RequestStatus = "Completed"
)

// Urgency é a indicação de urgência informada pelo solicitante.
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// ParseUrgency aceita apenas os valores exatos Low, Medium e High.
// Qualquer outro valor (inclusive "high") vira Low.
func ParseUrgency(value string) Urgency {
	switch Urgency(value) {
	case UrgencyMedium:
		return UrgencyMedium
	case UrgencyHigh:
		return UrgencyHigh
	default:
		return UrgencyLow
	}
}

// Weight retorna o peso da urgência: Low=1, Medium=2, High=3.
func (u Urgency) Weight() int {
	switch u {
	case UrgencyMedium:
		return 2
	case UrgencyHigh:
		return 3
	default:
		return 1
	}
}

// StockRequest representa uma requisição de estoque.
// PriorityScore é congelado na submissão e nunca recalculado.
// ManagerID é não-nulo se e somente se Status for Approved ou Rejected.
type StockRequest struct {
	ID            int64         `json:"id"`
	ItemID        int64         `json:"item_id"`
	RequestedBy   int64         `json:"requested_by"`
	Quantity      int           `json:"quantity"`
	PriorityScore int           `json:"priority_score"`
	Status        RequestStatus `json:"status"`
	ManagerID     *int64        `json:"manager_id"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     *time.Time    `json:"updated_at"`

	// Campos de leitura vindos de junções (não persistidos na tabela de requisições)
	ItemName      string `json:"item_name,omitempty"`
	RequesterName string `json:"requester_name,omitempty"`
}

// SubmitInput é o payload de submissão de uma requisição.
type SubmitInput struct {
	ItemID   int64   `json:"item_id"`
	Quantity int     `json:"quantity"`
	Urgency  Urgency `json:"urgency"`
}

// BulkApproveInput é o payload da aprovação consolidada.
type BulkApproveInput struct {
	RequestIDs []int64 `json:"request_ids"`
}

// PendingSupplierRow é uma requisição pendente com o fornecedor do item referenciado.
// Alimenta o detector de consolidação.
type PendingSupplierRow struct {
	RequestID     int64
	Quantity      int
	PriorityScore int
	SupplierID    int64
	SupplierName  string
	ItemName      string
}

// ConsolidationGroup agrupa requisições pendentes de um mesmo fornecedor.
type ConsolidationGroup struct {
	SupplierID    int64    `json:"supplier_id"`
	SupplierName  string   `json:"supplier_name"`
	RequestCount  int      `json:"request_count"`
	TotalQuantity int      `json:"total_quantity"`
	RequestIDs    []int64  `json:"request_ids"`
	ItemNames     []string `json:"item_names"`
}

// RequestSummary é o resumo de requisições por estado (relatórios).
type RequestSummary struct {
	Total     int `json:"total_requests"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Completed int `json:"completed"`
}

// ItemFrequency é a quantidade de requisições de um item numa janela de tempo.
type ItemFrequency struct {
	ItemID int64 `json:"item_id"`
	Count  int   `json:"count"`
}
