package inventoryrepo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
	"gostockflow/internal/pkg/logger"
)

// InventoryRepository lê o estado dos itens de inventário. O inventário pertence a
// outro módulo; aqui só há leitura.
type InventoryRepository struct {
	DB        *gorm.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewInventoryRepository(db *gorm.DB, dbTimeout time.Duration, log logger.Logger) *InventoryRepository {
	return &InventoryRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

// Snapshot retorna {quantity, min_threshold, supplier_id} do item ou NotFoundError.
func (r *InventoryRepository) Snapshot(ctx context.Context, itemID int64) (domain.InventoryItemSnapshot, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var rows []struct {
		Quantity     *int   `gorm:"column:quantity"`
		MinThreshold *int   `gorm:"column:min_threshold"`
		SupplierID   *int64 `gorm:"column:supplier_id"`
	}
	err := r.DB.WithContext(ctxTimeout).Raw(
		`SELECT quantity, min_threshold, supplier_id FROM inventory_items WHERE id = ?`, itemID,
	).Scan(&rows).Error
	if err != nil {
		r.logger.Error("Falha ao ler item de inventário.", err)
		return domain.InventoryItemSnapshot{}, apperror.NewPersistenceError("Falha ao ler item de inventário", err)
	}
	if len(rows) == 0 {
		r.logger.Info("Item de inventário não encontrado.", map[string]interface{}{"item_id": itemID})
		return domain.InventoryItemSnapshot{}, apperror.NewNotFoundError(fmt.Sprintf("Item %d não encontrado.", itemID))
	}

	return domain.InventoryItemSnapshot{
		Quantity:     rows[0].Quantity,
		MinThreshold: rows[0].MinThreshold,
		SupplierID:   rows[0].SupplierID,
	}, nil
}

// ItemSupplier retorna o item com o fornecedor atribuído; SupplierID nil quando não há.
func (r *InventoryRepository) ItemSupplier(ctx context.Context, itemID int64) (domain.ItemSupplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var rows []struct {
		ItemID       int64   `gorm:"column:item_id"`
		ItemName     string  `gorm:"column:item_name"`
		Quantity     *int    `gorm:"column:quantity"`
		SupplierID   *int64  `gorm:"column:supplier_id"`
		SupplierName *string `gorm:"column:supplier_name"`
	}
	err := r.DB.WithContext(ctxTimeout).Raw(`
		SELECT i.id AS item_id, i.name AS item_name, i.quantity, s.id AS supplier_id, s.name AS supplier_name
		FROM inventory_items i
		LEFT JOIN suppliers s ON s.id = i.supplier_id
		WHERE i.id = ?`, itemID,
	).Scan(&rows).Error
	if err != nil {
		r.logger.Error("Falha ao ler fornecedor do item.", err)
		return domain.ItemSupplier{}, apperror.NewPersistenceError("Falha ao ler fornecedor do item", err)
	}
	if len(rows) == 0 {
		return domain.ItemSupplier{}, apperror.NewNotFoundError(fmt.Sprintf("Item %d não encontrado.", itemID))
	}

	row := rows[0]
	out := domain.ItemSupplier{ItemID: row.ItemID, ItemName: row.ItemName, SupplierID: row.SupplierID}
	if row.Quantity != nil {
		out.AvailableStock = *row.Quantity
	}
	if row.SupplierName != nil {
		out.SupplierName = *row.SupplierName
	}
	return out, nil
}
