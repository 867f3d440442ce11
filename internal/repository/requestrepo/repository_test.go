package requestrepo_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
	"gostockflow/internal/pkg/cache"
	"gostockflow/internal/pkg/clock"
	"gostockflow/internal/pkg/logger"
	"gostockflow/internal/repository/requestrepo"
)

var schema = []string{
	`CREATE TABLE suppliers (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`,
	`CREATE TABLE inventory_items (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		quantity INTEGER,
		min_threshold INTEGER,
		supplier_id INTEGER
	)`,
	`CREATE TABLE users (id INTEGER PRIMARY KEY, username TEXT NOT NULL, role TEXT NOT NULL)`,
	`CREATE TABLE stock_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id INTEGER NOT NULL,
		requested_by INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		priority_score INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		manager_id INTEGER,
		created_at DATETIME NOT NULL,
		updated_at DATETIME
	)`,
}

// MockSummaryCache é uma implementação mock do cache do resumo.
type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockSummaryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *MockSummaryCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type fixture struct {
	db    *gorm.DB
	clock *clock.FakeClock
	repo  *requestrepo.RequestRepository
}

func newFixture(t *testing.T, c requestrepo.SummaryCache) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	require.NoError(t, db.Exec(`INSERT INTO suppliers (id, name) VALUES (1, 'Fornecedor Padrão'), (3, 'Importadora Global')`).Error)
	require.NoError(t, db.Exec(`INSERT INTO inventory_items (id, name, quantity, min_threshold, supplier_id) VALUES
		(10, 'Parafuso', 100, 20, 1),
		(11, 'Porca', 5, 10, 1),
		(12, 'Arruela', 50, 5, 3),
		(13, 'Sem fornecedor', 0, 0, NULL)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO users (id, username, role) VALUES (1, 'ana', 'Staff'), (2, 'bruno', 'Manager')`).Error)

	clk := clock.NewFakeClock(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))
	repo := requestrepo.NewRequestRepository(db, c, 5*time.Second, time.Minute, clk, logger.NewLogger("debug"))
	return &fixture{db: db, clock: clk, repo: repo}
}

func (f *fixture) submit(t *testing.T, itemID int64, qty, score int) int64 {
	t.Helper()
	id, err := f.repo.Submit(context.Background(), itemID, 1, qty, score)
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	return id
}

func TestSubmit_Success_CreatesPending(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id, err := f.repo.Submit(ctx, 10, 1, 25, 60)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, found, err := f.repo.FetchByID(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, 60, got.PriorityScore)
	assert.Equal(t, 25, got.Quantity)
	assert.Nil(t, got.ManagerID)
	assert.Nil(t, got.UpdatedAt)
	assert.Equal(t, "Parafuso", got.ItemName)
	assert.Equal(t, "ana", got.RequesterName)
}

func TestFetch_ScansEveryColumn(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	createdAt := f.clock.Now()

	id, err := f.repo.Submit(ctx, 10, 1, 25, 60)
	require.NoError(t, err)

	got, found, err := f.repo.FetchByID(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, int64(10), got.ItemID)
	assert.Equal(t, int64(1), got.RequestedBy)
	assert.Equal(t, 25, got.Quantity)
	assert.Equal(t, 60, got.PriorityScore)
	assert.True(t, createdAt.Equal(got.CreatedAt))

	pending, err := f.repo.FetchPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, got, pending[0])

	mine, err := f.repo.FetchByRequester(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, got, mine[0])
}

func TestSubmit_Fail_Validation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	cases := []struct {
		item, requester int64
		qty, score      int
	}{
		{0, 1, 1, 1},
		{10, -1, 1, 1},
		{10, 1, 0, 1},
		{10, 1, 1, 0},
	}
	for _, tc := range cases {
		_, err := f.repo.Submit(ctx, tc.item, tc.requester, tc.qty, tc.score)
		var validation *apperror.ValidationError
		assert.ErrorAs(t, err, &validation)
	}
}

func TestFetchPending_OrderedByScoreThenCreation(t *testing.T) {
	f := newFixture(t, nil)

	a := f.submit(t, 10, 1, 50)
	b := f.submit(t, 11, 1, 120)
	c := f.submit(t, 12, 1, 50)
	d := f.submit(t, 10, 1, 300)

	pending, err := f.repo.FetchPending(context.Background())
	require.NoError(t, err)

	ids := make([]int64, 0, len(pending))
	for _, p := range pending {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{d, b, a, c}, ids)
}

func TestFetchPending_ExcludesDecided(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a := f.submit(t, 10, 1, 50)
	b := f.submit(t, 11, 1, 80)
	_, err := f.repo.Reject(ctx, b, 2)
	require.NoError(t, err)

	pending, err := f.repo.FetchPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a, pending[0].ID)
}

func TestFetchByID_NotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, found, err := f.repo.FetchByID(context.Background(), 999)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestApprove_Success(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.submit(t, 10, 3, 70)

	ok, err := f.repo.Approve(ctx, id, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	got, _, err := f.repo.FetchByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	require.NotNil(t, got.ManagerID)
	assert.Equal(t, int64(2), *got.ManagerID)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, f.clock.Now().Equal(*got.UpdatedAt))

	// aprovação não mexe no estoque
	var stock int
	require.NoError(t, f.db.Raw(`SELECT quantity FROM inventory_items WHERE id = 10`).Scan(&stock).Error)
	assert.Equal(t, 100, stock)
}

func TestApprove_Fail_NotFoundReturnsFalse(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.submit(t, 10, 3, 70)

	ok, err := f.repo.Approve(ctx, 12345, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	got, _, err := f.repo.FetchByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestReject_Success(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.submit(t, 11, 2, 40)

	ok, err := f.repo.Reject(ctx, id, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	got, _, err := f.repo.FetchByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
	require.NotNil(t, got.ManagerID)
	assert.Equal(t, int64(2), *got.ManagerID)
}

func TestReject_Fail_NotFoundReturnsFalse(t *testing.T) {
	f := newFixture(t, nil)

	ok, err := f.repo.Reject(context.Background(), 404, 2)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRejectThenApprove_FinalStateIsLastCall(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.submit(t, 10, 1, 10)

	ok, err := f.repo.Reject(ctx, id, 2)
	require.NoError(t, err)
	require.True(t, ok)
	f.clock.Advance(time.Minute)
	approvedAt := f.clock.Now()

	ok, err = f.repo.Approve(ctx, id, 7)
	require.NoError(t, err)
	require.True(t, ok)

	got, _, err := f.repo.FetchByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	require.NotNil(t, got.ManagerID)
	assert.Equal(t, int64(7), *got.ManagerID)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, approvedAt.Equal(*got.UpdatedAt))
}

func TestBulkApprove_Success(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.submit(t, 10, 1, 10)
	b := f.submit(t, 11, 1, 20)

	approved, err := f.repo.BulkApprove(ctx, []int64{a, b, a}, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{a, b}, approved)

	for _, id := range []int64{a, b} {
		got, _, err := f.repo.FetchByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, got.Status)
		require.NotNil(t, got.ManagerID)
		assert.Equal(t, int64(2), *got.ManagerID)
	}
}

func TestBulkApprove_Fail_PartialSetHasNoEffect(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id1 := f.submit(t, 10, 1, 10)
	id2 := f.submit(t, 11, 1, 20)

	ok, err := f.repo.Approve(ctx, id2, 2)
	require.NoError(t, err)
	require.True(t, ok)

	approved, err := f.repo.BulkApprove(ctx, []int64{id1, id2}, 2)
	require.NoError(t, err)
	assert.Empty(t, approved)

	got, _, err := f.repo.FetchByID(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Nil(t, got.ManagerID)
	assert.Nil(t, got.UpdatedAt)
}

func TestBulkApprove_Fail_UnknownID(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id1 := f.submit(t, 10, 1, 10)

	approved, err := f.repo.BulkApprove(ctx, []int64{id1, 9999}, 2)
	require.NoError(t, err)
	assert.Empty(t, approved)

	got, _, err := f.repo.FetchByID(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestBulkApprove_Fail_EmptySet(t *testing.T) {
	f := newFixture(t, nil)

	approved, err := f.repo.BulkApprove(context.Background(), nil, 2)

	require.NoError(t, err)
	assert.Empty(t, approved)
}

func TestCountRecentByItem(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.submit(t, 10, 1, 1)
	f.clock.Advance(40 * 24 * time.Hour)
	since := f.clock.Now().Add(-30 * 24 * time.Hour)
	f.submit(t, 10, 1, 1)
	f.submit(t, 10, 1, 1)
	f.submit(t, 11, 1, 1)

	count, err := f.repo.CountRecentByItem(ctx, 10, since)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	freqs, err := f.repo.FrequenciesSince(ctx, since)
	require.NoError(t, err)
	assert.Equal(t, []domain.ItemFrequency{{ItemID: 10, Count: 2}, {ItemID: 11, Count: 1}}, freqs)
}

func TestFetchByRequester_NewestFirst(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a := f.submit(t, 10, 1, 1)
	b := f.submit(t, 11, 1, 1)
	_, err := f.repo.Submit(ctx, 12, 2, 1, 1)
	require.NoError(t, err)

	mine, err := f.repo.FetchByRequester(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, b, mine[0].ID)
	assert.Equal(t, a, mine[1].ID)
}

func TestPendingWithSupplier_SkipsItemsWithoutSupplier(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a := f.submit(t, 10, 4, 30)
	b := f.submit(t, 11, 6, 90)
	c := f.submit(t, 12, 1, 10)
	f.submit(t, 13, 1, 500)

	rows, err := f.repo.PendingWithSupplier(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, domain.PendingSupplierRow{RequestID: b, Quantity: 6, PriorityScore: 90, SupplierID: 1, SupplierName: "Fornecedor Padrão", ItemName: "Porca"}, rows[0])
	assert.Equal(t, a, rows[1].RequestID)
	assert.Equal(t, c, rows[2].RequestID)
	assert.Equal(t, int64(3), rows[2].SupplierID)
}

func TestSummary_CountsByStatus(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a := f.submit(t, 10, 1, 1)
	b := f.submit(t, 11, 1, 1)
	f.submit(t, 12, 1, 1)
	_, err := f.repo.Approve(ctx, a, 2)
	require.NoError(t, err)
	_, err = f.repo.Reject(ctx, b, 2)
	require.NoError(t, err)
	require.NoError(t, f.db.Exec(`INSERT INTO stock_requests (item_id, requested_by, quantity, priority_score, status, manager_id, created_at)
		VALUES (10, 1, 1, 1, 'Completed', 2, ?)`, f.clock.Now()).Error)

	summary, err := f.repo.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestSummary{Total: 4, Pending: 1, Approved: 1, Rejected: 1, Completed: 1}, summary)
}

func TestSummary_ServedFromCache(t *testing.T) {
	c := new(MockSummaryCache)
	cached, _ := json.Marshal(domain.RequestSummary{Total: 9, Pending: 9})
	c.On("Get", mock.Anything, "stock_requests:summary").Return(string(cached), nil)

	f := newFixture(t, c)

	summary, err := f.repo.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, summary.Total)
	c.AssertExpectations(t)
}

func TestSummary_CacheMissStoresAndWritesInvalidate(t *testing.T) {
	c := new(MockSummaryCache)
	c.On("Get", mock.Anything, "stock_requests:summary").Return("", cache.ErrCacheMiss)
	c.On("Set", mock.Anything, "stock_requests:summary", mock.Anything, time.Minute).Return(nil)
	c.On("Delete", mock.Anything, "stock_requests:summary").Return(nil)

	f := newFixture(t, c)
	ctx := context.Background()

	_, err := f.repo.Summary(ctx)
	require.NoError(t, err)
	f.submit(t, 10, 1, 1)

	c.AssertCalled(t, "Set", mock.Anything, "stock_requests:summary", mock.Anything, time.Minute)
	c.AssertCalled(t, "Delete", mock.Anything, "stock_requests:summary")
}

func TestPersistenceError_OnStoreFault(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.db.Exec(`DROP TABLE stock_requests`).Error)

	_, err := f.repo.Approve(context.Background(), 1, 2)

	assert.True(t, apperror.IsPersistence(err))
}
