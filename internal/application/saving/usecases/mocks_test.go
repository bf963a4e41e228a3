package usecases

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"finsim/internal/domain/saving"
	vo "finsim/internal/domain/saving/valueobjects"
	"finsim/internal/domain/wallet"
	"finsim/internal/shared/biztime"
	"finsim/internal/shared/logger"
)

var testLogger = logger.NewNop()

// passthroughTx runs fn directly. Rollback is covered by the sqlite
// integration tests in the persistence package.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- subscriptions ---

type memSubscriptionRepo struct {
	mu     sync.Mutex
	subs   map[uint]*saving.Subscription
	nextID uint

	createErr error
	updateErr error
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{subs: make(map[uint]*saving.Subscription), nextID: 1}
}

func cloneSubscription(s *saving.Subscription) *saving.Subscription {
	c, err := saving.ReconstructSubscription(saving.SubscriptionReconstructParams{
		ID:              s.ID(),
		UserID:          s.UserID(),
		ProductOptionID: s.ProductOptionID(),
		Term:            s.Term(),
		AutoDebitAmount: s.AutoDebitAmount(),
		StartDate:       s.StartDate(),
		MaturityDate:    s.MaturityDate(),
		Status:          s.Status(),
		CanceledAt:      s.CanceledAt(),
		TerminatedAt:    s.TerminatedAt(),
		MaturedAt:       s.MaturedAt(),
		Settlement:      s.Settlement(),
		Version:         s.Version(),
		CreatedAt:       s.CreatedAt(),
		UpdatedAt:       s.UpdatedAt(),
	})
	if err != nil {
		panic(err)
	}
	return c
}

func (r *memSubscriptionRepo) Create(_ context.Context, sub *saving.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if err := sub.SetID(r.nextID); err != nil {
		return err
	}
	r.nextID++
	r.subs[sub.ID()] = cloneSubscription(sub)
	return nil
}

func (r *memSubscriptionRepo) GetByID(_ context.Context, id uint) (*saving.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", saving.ErrSubscriptionNotFound, id)
	}
	return cloneSubscription(s), nil
}

func (r *memSubscriptionRepo) GetByIDForUpdate(ctx context.Context, id uint) (*saving.Subscription, error) {
	return r.GetByID(ctx, id)
}

func (r *memSubscriptionRepo) ListByUserAndStatus(_ context.Context, userID uint, status vo.SubscriptionStatus) ([]*saving.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*saving.Subscription
	for _, s := range r.subs {
		if s.UserID() == userID && s.Status() == status {
			out = append(out, cloneSubscription(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *memSubscriptionRepo) ListActiveUserIDs(_ context.Context) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, s := range r.subs {
		if s.IsActive() && !slices.Contains(ids, s.UserID()) {
			ids = append(ids, s.UserID())
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *memSubscriptionRepo) ListMaturedActive(_ context.Context, userID uint, today time.Time) ([]*saving.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*saving.Subscription
	for _, s := range r.subs {
		if (userID == 0 || s.UserID() == userID) && s.IsActive() && s.HasMatured(today) {
			out = append(out, cloneSubscription(s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MaturityDate().Equal(out[j].MaturityDate()) {
			return out[i].ID() < out[j].ID()
		}
		return out[i].MaturityDate().Before(out[j].MaturityDate())
	})
	return out, nil
}

func (r *memSubscriptionRepo) Update(_ context.Context, sub *saving.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.subs[sub.ID()]
	if !ok {
		return saving.ErrSubscriptionNotFound
	}
	if stored.Version() >= sub.Version() {
		return saving.ErrConcurrentModification
	}
	r.subs[sub.ID()] = cloneSubscription(sub)
	return nil
}

func (r *memSubscriptionRepo) get(id uint) *saving.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs[id]
}

// cancelAfterReadRepo commits a cancel of every subscription right after it
// was handed out by a plain read, the way a concurrent request would. Locked
// reads see the canceled row.
type cancelAfterReadRepo struct {
	*memSubscriptionRepo
}

func (r cancelAfterReadRepo) cancelStored(id uint) {
	stored, err := r.memSubscriptionRepo.GetByID(context.Background(), id)
	if err != nil || !stored.IsActive() {
		return
	}
	if err := stored.Cancel(time.Now()); err != nil {
		panic(err)
	}
	if err := r.memSubscriptionRepo.Update(context.Background(), stored); err != nil {
		panic(err)
	}
}

func (r cancelAfterReadRepo) GetByID(ctx context.Context, id uint) (*saving.Subscription, error) {
	sub, err := r.memSubscriptionRepo.GetByID(ctx, id)
	if err == nil {
		r.cancelStored(id)
	}
	return sub, err
}

func (r cancelAfterReadRepo) ListByUserAndStatus(ctx context.Context, userID uint, status vo.SubscriptionStatus) ([]*saving.Subscription, error) {
	subs, err := r.memSubscriptionRepo.ListByUserAndStatus(ctx, userID, status)
	for _, s := range subs {
		r.cancelStored(s.ID())
	}
	return subs, err
}

// --- payment lines ---

type memPaymentRepo struct {
	mu     sync.Mutex
	lines  map[uint]*saving.PaymentHistory
	nextID uint

	updateErr error
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{lines: make(map[uint]*saving.PaymentHistory), nextID: 1}
}

func cloneLine(l *saving.PaymentHistory) *saving.PaymentHistory {
	c, err := saving.ReconstructPaymentHistory(saving.PaymentHistoryReconstructParams{
		ID:             l.ID(),
		SubscriptionID: l.SubscriptionID(),
		Cycle:          l.Cycle(),
		DueDate:        l.DueDate(),
		ExpectedAmount: l.ExpectedAmount(),
		Status:         l.Status(),
		PaidAmount:     l.PaidAmount(),
		WalletTxID:     l.WalletTxID(),
		Note:           l.Note(),
		ProcessedAt:    l.ProcessedAt(),
		CreatedAt:      l.CreatedAt(),
		UpdatedAt:      l.UpdatedAt(),
	})
	if err != nil {
		panic(err)
	}
	return c
}

func (r *memPaymentRepo) CreateBatch(_ context.Context, lines []*saving.PaymentHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range lines {
		if err := l.SetID(r.nextID); err != nil {
			return err
		}
		r.nextID++
		r.lines[l.ID()] = cloneLine(l)
	}
	return nil
}

func (r *memPaymentRepo) bySubscription(subscriptionID uint) []*saving.PaymentHistory {
	var out []*saving.PaymentHistory
	for _, l := range r.lines {
		if l.SubscriptionID() == subscriptionID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cycle() < out[j].Cycle() })
	return out
}

func (r *memPaymentRepo) GetNextPlanned(_ context.Context, subscriptionID uint) (*saving.PaymentHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.bySubscription(subscriptionID) {
		if l.IsPlanned() {
			return cloneLine(l), nil
		}
	}
	return nil, nil
}

func (r *memPaymentRepo) GetNextPlannedFrom(_ context.Context, subscriptionID uint, from time.Time) (*saving.PaymentHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.bySubscription(subscriptionID) {
		if l.IsPlanned() && !l.DueDate().Before(from) {
			return cloneLine(l), nil
		}
	}
	return nil, nil
}

func (r *memPaymentRepo) ListBySubscription(_ context.Context, subscriptionID uint) ([]*saving.PaymentHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := r.bySubscription(subscriptionID)
	out := make([]*saving.PaymentHistory, 0, len(lines))
	for _, l := range lines {
		out = append(out, cloneLine(l))
	}
	return out, nil
}

func (r *memPaymentRepo) CountBySubscription(_ context.Context, subscriptionID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.bySubscription(subscriptionID))), nil
}

func (r *memPaymentRepo) CountByStatus(_ context.Context, subscriptionID uint, status vo.PaymentStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.bySubscription(subscriptionID) {
		if l.Status() == status {
			n++
		}
	}
	return n, nil
}

func (r *memPaymentRepo) UpdateSettlement(_ context.Context, line *saving.PaymentHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.lines[line.ID()]
	if !ok || !stored.IsPlanned() {
		return saving.ErrPaymentNotPlanned
	}
	r.lines[line.ID()] = cloneLine(line)
	return nil
}

func (r *memPaymentRepo) list(subscriptionID uint) []*saving.PaymentHistory {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bySubscription(subscriptionID)
}

// seedLines stores the full schedule of sub with the given statuses applied
// to the first cycles.
func (r *memPaymentRepo) seedLines(sub *saving.Subscription, statuses ...vo.PaymentStatus) {
	lines, err := saving.BuildSchedule(sub, saving.TickPolicy{})
	if err != nil {
		panic(err)
	}
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, st := range statuses {
		switch st {
		case vo.PaymentPaid:
			_ = lines[i].MarkPaid(lines[i].ExpectedAmount(), fmt.Sprintf("wtx_seed%d", i), at)
		case vo.PaymentMissed:
			_ = lines[i].MarkMissed("insufficient funds", at)
		}
	}
	if err := r.CreateBatch(context.Background(), lines); err != nil {
		panic(err)
	}
}

// --- wallet ---

// fakeLedger is an idempotent in-memory wallet.
type fakeLedger struct {
	mu       sync.Mutex
	balances map[uint]decimal.Decimal
	requests map[string]string
	calls    []string
	failWith error
	seq      int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances: make(map[uint]decimal.Decimal),
		requests: make(map[string]string),
	}
}

func (l *fakeLedger) fund(userID uint, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] = l.balances[userID].Add(decimal.NewFromInt(amount))
}

func (l *fakeLedger) balance(userID uint) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID]
}

func (l *fakeLedger) apply(userID uint, requestID string, delta decimal.Decimal) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, requestID)
	if l.failWith != nil {
		return "", l.failWith
	}
	if txID, ok := l.requests[requestID]; ok {
		return txID, nil
	}
	next := l.balances[userID].Add(delta)
	if next.IsNegative() {
		return "", wallet.ErrInsufficientFunds
	}
	l.seq++
	txID := fmt.Sprintf("wtx_%d", l.seq)
	l.balances[userID] = next
	l.requests[requestID] = txID
	return txID, nil
}

func (l *fakeLedger) Debit(_ context.Context, userID uint, requestID string, amount decimal.Decimal) (string, error) {
	return l.apply(userID, requestID, amount.Neg())
}

func (l *fakeLedger) Credit(_ context.Context, userID uint, requestID string, amount decimal.Decimal) (string, error) {
	return l.apply(userID, requestID, amount)
}

func (l *fakeLedger) Balance(_ context.Context, userID uint) (decimal.Decimal, error) {
	return l.balance(userID), nil
}

func (l *fakeLedger) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

// --- catalog ---

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) SupportedTerms(ctx context.Context, optionID uint) ([]int, error) {
	args := m.Called(ctx, optionID)
	terms, _ := args.Get(0).([]int)
	return terms, args.Error(1)
}

func (m *mockCatalog) BestRate(ctx context.Context, optionID uint, term int) (decimal.Decimal, error) {
	args := m.Called(ctx, optionID, term)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockCatalog) RateType(ctx context.Context, optionID uint) (vo.RateType, error) {
	args := m.Called(ctx, optionID)
	return args.Get(0).(vo.RateType), args.Error(1)
}

func (m *mockCatalog) ProductName(ctx context.Context, optionID uint) (string, error) {
	args := m.Called(ctx, optionID)
	return args.String(0), args.Error(1)
}

func (m *mockCatalog) IncrementPopularity(ctx context.Context, optionID uint) error {
	args := m.Called(ctx, optionID)
	return args.Error(0)
}

// --- fixtures ---

// newActiveSubscription stores an ACTIVE subscription that started on start.
func newActiveSubscription(repo *memSubscriptionRepo, userID uint, term int, amount int64, start time.Time) *saving.Subscription {
	sub, err := saving.NewSubscription(userID, 100, term, decimal.NewFromInt(amount), start, saving.TickPolicy{})
	if err != nil {
		panic(err)
	}
	if err := repo.Create(context.Background(), sub); err != nil {
		panic(err)
	}
	return sub
}

func fixedClockOn(date time.Time) *biztime.FixedClock {
	// 01:00 UTC is 10:00 in Seoul, so the business date equals date.
	return biztime.NewFixedClock(date.Add(time.Hour))
}
