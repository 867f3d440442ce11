package supplierservice

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
	"gostockflow/internal/pkg/authz"
	"gostockflow/internal/pkg/clock"
	"gostockflow/internal/pkg/logger"
	"gostockflow/internal/scoring"
)

const (
	maxComponentScore  = 100
	leadTimePenalty    = 3
	stockRatioWeight   = 50
	deliveryDateLayout = "2006-01-02"
)

// ItemSupplierReader fornece o item com seu fornecedor e estoque atual.
type ItemSupplierReader interface {
	ItemSupplier(ctx context.Context, itemID int64) (domain.ItemSupplier, error)
}

// Service monta a recomendação de fornecedor para uma requisição.
type Service struct {
	items      ItemSupplierReader
	leadTimes  scoring.LeadTimeTable
	authorizer authz.Authorizer
	clock      clock.Clock
	logger     logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Fornecedores.
func NewService(items ItemSupplierReader, leadTimes scoring.LeadTimeTable, authorizer authz.Authorizer, clk clock.Clock, logger logger.Logger) *Service {
	if leadTimes == nil {
		leadTimes = scoring.DefaultLeadTimes()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Service{items: items, leadTimes: leadTimes, authorizer: authorizer, clock: clk, logger: logger}
}

// Recommend avalia o fornecedor do item: prazo menor e estoque maior pontuam mais.
func (s *Service) Recommend(ctx context.Context, actor domain.ActorContext, itemID int64, requestedQuantity int) (domain.SupplierRecommendation, error) {
	if err := s.authorizer.Authorize(actor, authz.ObjectRecommendation, authz.ActionView); err != nil {
		return domain.SupplierRecommendation{}, err
	}
	if requestedQuantity < 1 {
		requestedQuantity = 1
	}

	item, err := s.items.ItemSupplier(ctx, itemID)
	if err != nil {
		return domain.SupplierRecommendation{}, err
	}
	if item.SupplierID == nil || *item.SupplierID <= 0 {
		s.logger.Warn("Item sem fornecedor atribuído.", map[string]interface{}{"item_id": itemID})
		return domain.SupplierRecommendation{}, apperror.NewNotFoundError(fmt.Sprintf("nenhum fornecedor atribuído ao item %d", itemID))
	}

	supplierID := *item.SupplierID
	lead := s.leadTimes.LeadTime(supplierID)
	delivery := scoring.DeliveryDate(s.clock.Now(), lead)

	rec := domain.SupplierRecommendation{
		SupplierID:           supplierID,
		SupplierName:         item.SupplierName,
		LeadTimeDays:         lead,
		ExpectedDeliveryDate: delivery,
		ExpectedDelivery:     delivery.Format(deliveryDateLayout),
		AvailableStock:       item.AvailableStock,
		RequestedQuantity:    requestedQuantity,
		CanFulfill:           item.AvailableStock >= requestedQuantity,
		Score:                recommendationScore(lead, item.AvailableStock, requestedQuantity),
	}

	s.logger.Debug("Recomendação de fornecedor calculada.", map[string]interface{}{
		"item_id":     itemID,
		"supplier_id": supplierID,
		"score":       rec.Score,
	})
	return rec, nil
}

// recommendationScore = clamp(0, 100, 100 − prazo×3) + floor(min(100, estoque×50/qtd)).
func recommendationScore(leadDays, available, quantity int) int {
	leadScore := maxComponentScore - leadDays*leadTimePenalty
	if leadScore < 0 {
		leadScore = 0
	}
	if leadScore > maxComponentScore {
		leadScore = maxComponentScore
	}

	if available < 0 {
		available = 0
	}
	ratio := decimal.NewFromInt(int64(available)).Mul(decimal.NewFromInt(stockRatioWeight))
	stockScore, _ := ratio.QuoRem(decimal.NewFromInt(int64(quantity)), 0)
	if stockScore.GreaterThan(decimal.NewFromInt(maxComponentScore)) {
		stockScore = decimal.NewFromInt(maxComponentScore)
	}
	return leadScore + int(stockScore.IntPart())
}
