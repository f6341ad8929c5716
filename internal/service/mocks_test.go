package service_test

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"courtledger-backend/internal/domain"
	"courtledger-backend/internal/repository"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) SetBalance(ctx context.Context, id string, balanceCents int64) error {
	args := m.Called(ctx, id, balanceCents)
	return args.Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepo) Watch(ctx context.Context) (<-chan repository.UserSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan repository.UserSnapshot), args.Error(1)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockLedgerRepo) ApplyBalanceChange(ctx context.Context, userID, userName string, deltaCents int64, description string) (*domain.Transaction, int64, error) {
	args := m.Called(ctx, userID, userName, deltaCents, description)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.Transaction), args.Get(1).(int64), args.Error(2)
}
func (m *MockLedgerRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockLedgerRepo) ListAll(ctx context.Context, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockLedgerRepo) ListBetween(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// MockSettlementRepo
type MockSettlementRepo struct {
	mock.Mock
}

func (m *MockSettlementRepo) State(ctx context.Context) (*domain.SettlementState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementState), args.Error(1)
}
func (m *MockSettlementRepo) CommitReport(ctx context.Context, report *domain.WeeklyReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}
func (m *MockSettlementRepo) GetReport(ctx context.Context, week string) (*domain.WeeklyReport, error) {
	args := m.Called(ctx, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeeklyReport), args.Error(1)
}

// fakeResolver serves a fixed directory snapshot.
type fakeResolver struct {
	users map[string]domain.User
}

func (f *fakeResolver) Lookup(id string) (domain.User, bool) {
	u, ok := f.users[id]
	return u, ok
}

// fakeLedgerRepo is a stateful in-memory ledger for sequence tests. It
// mirrors the store's contract: balance update and transaction append
// commit together, timestamps are assigned at commit and never decrease.
type fakeLedgerRepo struct {
	mu       sync.Mutex
	balances map[string]int64
	txs      []domain.Transaction
	now      time.Time
	seq      int
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		balances: make(map[string]int64),
		now:      time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeLedgerRepo) setBalance(userID string, cents int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[userID] = cents
}

func (f *fakeLedgerRepo) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.append(tx)
	return nil
}

func (f *fakeLedgerRepo) ApplyBalanceChange(ctx context.Context, userID, userName string, deltaCents int64, description string) (*domain.Transaction, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	newBalance := f.balances[userID] + deltaCents
	f.balances[userID] = newBalance

	tx := &domain.Transaction{
		UserID:      userID,
		UserName:    userName,
		AmountCents: deltaCents,
		Description: description,
	}
	f.append(tx)
	return tx, newBalance, nil
}

func (f *fakeLedgerRepo) append(tx *domain.Transaction) {
	f.seq++
	f.now = f.now.Add(time.Second)
	tx.ID = "tx-" + strconv.Itoa(f.seq)
	tx.Timestamp = f.now
	f.txs = append(f.txs, *tx)
}

func (f *fakeLedgerRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Transaction
	for _, tx := range f.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeLedgerRepo) ListAll(ctx context.Context, limit int) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Transaction, len(f.txs))
	copy(out, f.txs)
	sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeLedgerRepo) ListBetween(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Transaction
	for _, tx := range f.txs {
		if !tx.Timestamp.Before(start) && tx.Timestamp.Before(end) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func sortNewestFirst(txs []domain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
}
