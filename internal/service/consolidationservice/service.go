package consolidationservice

import (
	"context"
	"fmt"
	"sort"

	"gostockflow/internal/domain"
	"gostockflow/internal/pkg/authz"
	"gostockflow/internal/pkg/logger"
)

// PendingSource fornece as requisições pendentes já associadas ao fornecedor do item,
// na ordem da fila de aprovação.
type PendingSource interface {
	PendingWithSupplier(ctx context.Context) ([]domain.PendingSupplierRow, error)
}

// Service detecta oportunidades de consolidação de pedidos por fornecedor.
type Service struct {
	source     PendingSource
	authorizer authz.Authorizer
	logger     logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Consolidação.
func NewService(source PendingSource, authorizer authz.Authorizer, logger logger.Logger) *Service {
	return &Service{source: source, authorizer: authorizer, logger: logger}
}

// FindOpportunities agrupa as requisições pendentes por fornecedor. Somente leitura.
func (s *Service) FindOpportunities(ctx context.Context, actor domain.ActorContext) ([]domain.ConsolidationGroup, error) {
	if err := s.authorizer.Authorize(actor, authz.ObjectConsolidation, authz.ActionView); err != nil {
		return nil, err
	}

	rows, err := s.source.PendingWithSupplier(ctx)
	if err != nil {
		s.logger.Error("Falha ao buscar requisições pendentes por fornecedor.", err)
		return nil, fmt.Errorf("falha ao detectar consolidação: %w", err)
	}

	groups := GroupBySupplier(rows)
	s.logger.Debug("Oportunidades de consolidação calculadas.", map[string]interface{}{
		"pending_rows": len(rows),
		"groups":       len(groups),
	})
	return groups, nil
}

// GroupBySupplier mantém apenas fornecedores com mais de uma requisição pendente.
// Grupos saem por quantidade de requisições (desc) e depois por fornecedor (asc);
// dentro do grupo os ids e nomes seguem a ordem de entrada.
func GroupBySupplier(rows []domain.PendingSupplierRow) []domain.ConsolidationGroup {
	index := make(map[int64]int)
	var groups []domain.ConsolidationGroup

	for _, row := range rows {
		i, ok := index[row.SupplierID]
		if !ok {
			i = len(groups)
			index[row.SupplierID] = i
			groups = append(groups, domain.ConsolidationGroup{
				SupplierID:   row.SupplierID,
				SupplierName: row.SupplierName,
			})
		}
		g := &groups[i]
		g.RequestCount++
		g.TotalQuantity += row.Quantity
		g.RequestIDs = append(g.RequestIDs, row.RequestID)
		g.ItemNames = append(g.ItemNames, row.ItemName)
	}

	out := make([]domain.ConsolidationGroup, 0, len(groups))
	for _, g := range groups {
		if g.RequestCount > 1 {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].RequestCount != out[b].RequestCount {
			return out[a].RequestCount > out[b].RequestCount
		}
		return out[a].SupplierID < out[b].SupplierID
	})
	return out
}
