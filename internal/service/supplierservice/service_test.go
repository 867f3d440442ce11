package supplierservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
	"gostockflow/internal/pkg/authz"
	"gostockflow/internal/pkg/clock"
	"gostockflow/internal/pkg/logger"
	"gostockflow/internal/scoring"
	"gostockflow/internal/service/supplierservice"
)

type MockItemSupplierReader struct {
	mock.Mock
}

func (m *MockItemSupplierReader) ItemSupplier(ctx context.Context, itemID int64) (domain.ItemSupplier, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(domain.ItemSupplier), args.Error(1)
}

var managerActor = domain.ActorContext{UserID: 2, Role: domain.RoleManager}

func newService(t *testing.T, reader supplierservice.ItemSupplierReader) *supplierservice.Service {
	t.Helper()
	authorizer, err := authz.NewCasbinAuthorizer()
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, 5, 4, 18, 30, 0, 0, time.UTC))
	return supplierservice.NewService(reader, scoring.DefaultLeadTimes(), authorizer, clk, logger.NewFromZap(zap.NewNop()))
}

func supplierID(v int64) *int64 { return &v }

func TestRecommend_Success(t *testing.T) {
	reader := new(MockItemSupplierReader)
	svc := newService(t, reader)
	ctx := context.Background()

	reader.On("ItemSupplier", ctx, int64(10)).Return(domain.ItemSupplier{
		ItemID: 10, ItemName: "Papel A4", SupplierID: supplierID(3), SupplierName: "Atacado Sul", AvailableStock: 30,
	}, nil)

	rec, err := svc.Recommend(ctx, managerActor, 10, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.SupplierID)
	assert.Equal(t, 21, rec.LeadTimeDays)
	assert.Equal(t, "2026-05-25", rec.ExpectedDelivery)
	assert.True(t, rec.CanFulfill)
	// (100 - 63) + min(100, 30*50/20 = 75)
	assert.Equal(t, 112, rec.Score)
}

func TestRecommend_StockScoreCapped(t *testing.T) {
	reader := new(MockItemSupplierReader)
	svc := newService(t, reader)
	ctx := context.Background()

	reader.On("ItemSupplier", ctx, int64(10)).Return(domain.ItemSupplier{SupplierID: supplierID(5), AvailableStock: 1000}, nil)

	rec, err := svc.Recommend(ctx, managerActor, 10, 1)

	require.NoError(t, err)
	assert.Equal(t, 91+100, rec.Score)
	assert.Equal(t, "2026-05-07", rec.ExpectedDelivery)
}

func TestRecommend_QuantityCoercedAndNegativeStock(t *testing.T) {
	reader := new(MockItemSupplierReader)
	svc := newService(t, reader)
	ctx := context.Background()

	reader.On("ItemSupplier", ctx, int64(10)).Return(domain.ItemSupplier{SupplierID: supplierID(1), AvailableStock: -4}, nil)

	rec, err := svc.Recommend(ctx, managerActor, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, rec.RequestedQuantity)
	assert.False(t, rec.CanFulfill)
	assert.Equal(t, 79, rec.Score)
}

func TestRecommend_Fail_NoSupplier(t *testing.T) {
	reader := new(MockItemSupplierReader)
	svc := newService(t, reader)
	ctx := context.Background()

	reader.On("ItemSupplier", ctx, int64(13)).Return(domain.ItemSupplier{ItemID: 13}, nil)

	_, err := svc.Recommend(ctx, managerActor, 13, 5)

	var nfErr *apperror.NotFoundError
	assert.True(t, errors.As(err, &nfErr))
}

func TestRecommend_Fail_ItemMissing(t *testing.T) {
	reader := new(MockItemSupplierReader)
	svc := newService(t, reader)
	ctx := context.Background()

	reader.On("ItemSupplier", ctx, int64(99)).Return(domain.ItemSupplier{}, apperror.NewNotFoundError("item 99"))

	_, err := svc.Recommend(ctx, managerActor, 99, 5)

	var nfErr *apperror.NotFoundError
	assert.True(t, errors.As(err, &nfErr))
}

func TestRecommend_Fail_StaffForbidden(t *testing.T) {
	reader := new(MockItemSupplierReader)
	svc := newService(t, reader)

	_, err := svc.Recommend(context.Background(), domain.ActorContext{UserID: 7, Role: domain.RoleStaff}, 10, 5)

	var fErr *apperror.ForbiddenError
	assert.True(t, errors.As(err, &fErr))
}
