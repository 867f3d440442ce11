package domain

import "time"

// InventoryItemSnapshot é a leitura do item usada pelo cálculo de prioridade.
// Campos nulos significam "desconhecido" e zeram a contribuição do fator correspondente.
type InventoryItemSnapshot struct {
	Quantity     *int   `json:"quantity"`
	MinThreshold *int   `json:"min_threshold"`
	SupplierID   *int64 `json:"supplier_id"`
}

// ItemSupplier é a visão do item com seu fornecedor, usada na recomendação.
type ItemSupplier struct {
	ItemID         int64
	ItemName       string
	SupplierID     *int64
	SupplierName   string
	AvailableStock int
}

// SupplierRecommendation é a recomendação de atendimento para uma requisição aprovada.
type SupplierRecommendation struct {
	SupplierID           int64     `json:"supplier_id"`
	SupplierName         string    `json:"supplier_name"`
	LeadTimeDays         int       `json:"lead_time_days"`
	ExpectedDeliveryDate time.Time `json:"-"`
	ExpectedDelivery     string    `json:"expected_delivery"` // YYYY-MM-DD
	AvailableStock       int       `json:"available_stock"`
	RequestedQuantity    int       `json:"requested_quantity"`
	CanFulfill           bool      `json:"can_fulfill"`
	Score                int       `json:"score"`
}
