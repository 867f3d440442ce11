package scoring

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultLeadTimeDays é o prazo usado para fornecedores sem entrada na tabela.
const DefaultLeadTimeDays = 7

// LeadTimeTable resolve o prazo de entrega (em dias) de um fornecedor.
type LeadTimeTable interface {
	LeadTime(supplierID int64) int
}

// StaticLeadTimes é uma tabela de prazos somente leitura, montada na inicialização.
type StaticLeadTimes struct {
	days        map[int64]int
	defaultDays int
}

// NewStaticLeadTimes copia o mapa recebido; alterações posteriores no mapa não afetam a tabela.
func NewStaticLeadTimes(days map[int64]int, defaultDays int) *StaticLeadTimes {
	copied := make(map[int64]int, len(days))
	for id, d := range days {
		copied[id] = d
	}
	return &StaticLeadTimes{days: copied, defaultDays: defaultDays}
}

// DefaultLeadTimes retorna a tabela padrão de fornecedores.
func DefaultLeadTimes() *StaticLeadTimes {
	return NewStaticLeadTimes(map[int64]int{
		1: 7,
		2: 5,
		3: 21,
		4: 14,
		5: 3,
	}, DefaultLeadTimeDays)
}

// LeadTime retorna o prazo configurado ou o padrão quando o fornecedor é desconhecido.
func (t *StaticLeadTimes) LeadTime(supplierID int64) int {
	if d, ok := t.days[supplierID]; ok {
		return d
	}
	return t.defaultDays
}

// ParseLeadTimes interpreta pares "fornecedor:dias" separados por vírgula, e.g. "1:7,2:5".
// String vazia retorna um mapa vazio.
func ParseLeadTimes(raw string) (map[int64]int, error) {
	out := make(map[int64]int)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		idPart, daysPart, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("par de prazo inválido %q: esperado fornecedor:dias", pair)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("id de fornecedor inválido em %q", pair)
		}
		days, err := strconv.Atoi(strings.TrimSpace(daysPart))
		if err != nil || days < 0 {
			return nil, fmt.Errorf("prazo inválido em %q", pair)
		}
		out[id] = days
	}
	return out, nil
}

// DeliveryDate retorna a data (meia-noite no fuso de from) somada a max(1, leadDays) dias.
func DeliveryDate(from time.Time, leadDays int) time.Time {
	if leadDays < 1 {
		leadDays = 1
	}
	y, m, d := from.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, from.Location()).AddDate(0, 0, leadDays)
}
