// Package scoring calcula a pontuação de prioridade das requisições de estoque.
// Toda a aritmética é exata: multiplicações antes das divisões, quociente truncado
// pelo decimal, de modo que quantidades muito grandes não estouram int64.
package scoring

import (
	"github.com/shopspring/decimal"

	"gostockflow/internal/domain"
)

const (
	maxSizeFactorPerWeight = 100
	maxShortageFactor      = 50
	maxFrequencyFactor     = 30
	frequencyMultiplier    = 3
	maxLeadTimeFactor      = 20
	baselineLeadTimeDays   = 7
)

// Breakdown detalha a contribuição de cada fator na pontuação.
type Breakdown struct {
	RequestSize int `json:"request_size"`
	Shortage    int `json:"shortage"`
	Frequency   int `json:"frequency"`
	LeadTime    int `json:"lead_time"`
	Total       int `json:"total"`
}

// Scorer calcula a pontuação completa (quatro fatores).
type Scorer struct {
	leadTimes LeadTimeTable
}

// NewScorer cria o Scorer com a tabela de prazos injetada.
func NewScorer(leadTimes LeadTimeTable) *Scorer {
	if leadTimes == nil {
		leadTimes = DefaultLeadTimes()
	}
	return &Scorer{leadTimes: leadTimes}
}

// Score retorna a pontuação total, sempre >= 1.
func (s *Scorer) Score(quantity int, urgency domain.Urgency, item *domain.InventoryItemSnapshot, frequency int) int {
	return s.Breakdown(quantity, urgency, item, frequency).Total
}

// Breakdown calcula cada fator de forma independente e soma.
func (s *Scorer) Breakdown(quantity int, urgency domain.Urgency, item *domain.InventoryItemSnapshot, frequency int) Breakdown {
	if quantity < 1 {
		quantity = 1
	}
	weight := domain.ParseUrgency(string(urgency)).Weight()

	b := Breakdown{
		RequestSize: requestSizeFactor(quantity, weight, item),
		Shortage:    shortageFactor(item),
		Frequency:   frequencyFactor(frequency),
		LeadTime:    s.leadTimeFactor(item),
	}
	b.Total = b.RequestSize + b.Shortage + b.Frequency + b.LeadTime
	if b.Total < 1 {
		b.Total = 1
	}
	return b
}

// LegacyScore é a variante simplificada: max(1, quantity) × peso da urgência.
func LegacyScore(quantity int, urgency domain.Urgency) int {
	if quantity < 1 {
		quantity = 1
	}
	weight := domain.ParseUrgency(string(urgency)).Weight()
	return int(decimal.NewFromInt(int64(quantity)).Mul(decimal.NewFromInt(int64(weight))).IntPart())
}

// requestSizeFactor: floor(min(1, q/estoque) × 100 × peso) com estoque > 0;
// senão min(100, q) × peso.
func requestSizeFactor(quantity, weight int, item *domain.InventoryItemSnapshot) int {
	if item == nil || item.Quantity == nil || *item.Quantity <= 0 {
		q := quantity
		if q > maxSizeFactorPerWeight {
			q = maxSizeFactorPerWeight
		}
		return q * weight
	}

	stock := int64(*item.Quantity)
	if int64(quantity) >= stock {
		return maxSizeFactorPerWeight * weight
	}
	num := decimal.NewFromInt(int64(quantity)).Mul(decimal.NewFromInt(int64(maxSizeFactorPerWeight * weight)))
	return floorDiv(num, decimal.NewFromInt(stock))
}

// shortageFactor: floor(min(1, (mínimo − estoque)/mínimo) × 50) quando estoque < mínimo.
func shortageFactor(item *domain.InventoryItemSnapshot) int {
	if item == nil || item.Quantity == nil || item.MinThreshold == nil {
		return 0
	}
	stock := int64(*item.Quantity)
	if stock < 0 {
		stock = 0
	}
	threshold := int64(*item.MinThreshold)
	if threshold < 1 {
		threshold = 1
	}
	if stock >= threshold {
		return 0
	}

	num := decimal.NewFromInt(threshold - stock).Mul(decimal.NewFromInt(maxShortageFactor))
	f := floorDiv(num, decimal.NewFromInt(threshold))
	if f > maxShortageFactor {
		f = maxShortageFactor
	}
	return f
}

func frequencyFactor(frequency int) int {
	if frequency <= 0 {
		return 0
	}
	if frequency >= maxFrequencyFactor/frequencyMultiplier {
		return maxFrequencyFactor
	}
	return frequency * frequencyMultiplier
}

func (s *Scorer) leadTimeFactor(item *domain.InventoryItemSnapshot) int {
	if item == nil || item.SupplierID == nil || *item.SupplierID <= 0 {
		return 0
	}
	return clamp(s.leadTimes.LeadTime(*item.SupplierID)-baselineLeadTimeDays, 0, maxLeadTimeFactor)
}

// floorDiv divide dois valores não negativos e trunca o quociente.
func floorDiv(num, den decimal.Decimal) int {
	q, _ := num.QuoRem(den, 0)
	return int(q.IntPart())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
