package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tourdesk/ledger/internal/domain"
	"github.com/tourdesk/ledger/internal/usecase"
)

// MockPartyRepository is a mock implementation of PartyRepository.
type MockPartyRepository struct {
	mu      sync.RWMutex
	parties map[string]*domain.Party

	CreateFunc            func(ctx context.Context, party *domain.Party) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Party, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Party, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Party, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, kind *domain.PartyKind, limit, offset int) ([]*domain.Party, error)
}

func NewMockPartyRepository() *MockPartyRepository {
	return &MockPartyRepository{
		parties: make(map[string]*domain.Party),
	}
}

func (m *MockPartyRepository) Create(ctx context.Context, party *domain.Party) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, party)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parties[party.ID] = party
	return nil
}

func (m *MockPartyRepository) GetByID(ctx context.Context, id string) (*domain.Party, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.parties[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPartyNotFound
}

func (m *MockPartyRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Party, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockPartyRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Party, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var parties []*domain.Party
	for _, id := range ids {
		if p, ok := m.parties[id]; ok {
			parties = append(parties, p)
		}
	}
	return parties, nil
}

func (m *MockPartyRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.parties[id]; ok {
		p.PresentBalance = balance
		p.Version++
		p.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockPartyRepository) List(ctx context.Context, kind *domain.PartyKind, limit, offset int) ([]*domain.Party, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, kind, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var parties []*domain.Party
	for _, p := range m.parties {
		if kind == nil || p.Kind == *kind {
			parties = append(parties, p)
		}
	}
	return parties, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	DeleteFunc           func(ctx context.Context, tx usecase.Transaction, id string) error
	ListByPartyFunc      func(ctx context.Context, partyID string, limit, offset int) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[txn.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *MockTransactionRepository) ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByPartyFunc != nil {
		return m.ListByPartyFunc(ctx, partyID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, t := range m.transactions {
		if t.PartyID == partyID {
			txns = append(txns, t)
		}
	}
	return txns, nil
}

// MockDirectTransactionRepository is a mock implementation of DirectTransactionRepository.
type MockDirectTransactionRepository struct {
	mu      sync.RWMutex
	directs map[string]*domain.DirectTransaction

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, dt *domain.DirectTransaction) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.DirectTransaction, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.DirectTransaction, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, dt *domain.DirectTransaction) error
	DeleteFunc           func(ctx context.Context, tx usecase.Transaction, id string) error
	ListByPartyFunc      func(ctx context.Context, partyID string, limit, offset int) ([]*domain.DirectTransaction, error)
}

func NewMockDirectTransactionRepository() *MockDirectTransactionRepository {
	return &MockDirectTransactionRepository{
		directs: make(map[string]*domain.DirectTransaction),
	}
}

func (m *MockDirectTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, dt *domain.DirectTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, dt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.directs[dt.ID] = dt
	return nil
}

func (m *MockDirectTransactionRepository) GetByID(ctx context.Context, id string) (*domain.DirectTransaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.directs[id]; ok {
		return d, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockDirectTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.DirectTransaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockDirectTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, dt *domain.DirectTransaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, dt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.directs[dt.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	m.directs[dt.ID] = dt
	return nil
}

func (m *MockDirectTransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.directs[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.directs, id)
	return nil
}

func (m *MockDirectTransactionRepository) ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.DirectTransaction, error) {
	if m.ListByPartyFunc != nil {
		return m.ListByPartyFunc(ctx, partyID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var directs []*domain.DirectTransaction
	for _, d := range m.directs {
		if d.PartyID == partyID {
			directs = append(directs, d)
		}
	}
	return directs, nil
}

// MockVendorPaymentRepository is a mock implementation of VendorPaymentRepository.
type MockVendorPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.VendorPayment

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, payment *domain.VendorPayment) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.VendorPayment, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.VendorPayment, error)
	ListByPaymentNoFunc  func(ctx context.Context, paymentNo string) ([]*domain.VendorPayment, error)
	ListByVendorFunc     func(ctx context.Context, vendorID string, limit, offset int) ([]*domain.VendorPayment, error)
	DeleteFunc           func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockVendorPaymentRepository() *MockVendorPaymentRepository {
	return &MockVendorPaymentRepository{
		payments: make(map[string]*domain.VendorPayment),
	}
}

func (m *MockVendorPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.VendorPayment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockVendorPaymentRepository) GetByID(ctx context.Context, id string) (*domain.VendorPayment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *MockVendorPaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.VendorPayment, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockVendorPaymentRepository) ListByPaymentNo(ctx context.Context, paymentNo string) ([]*domain.VendorPayment, error) {
	if m.ListByPaymentNoFunc != nil {
		return m.ListByPaymentNoFunc(ctx, paymentNo)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var payments []*domain.VendorPayment
	for _, p := range m.payments {
		if p.PaymentNo == paymentNo {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

func (m *MockVendorPaymentRepository) ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*domain.VendorPayment, error) {
	if m.ListByVendorFunc != nil {
		return m.ListByVendorFunc(ctx, vendorID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var payments []*domain.VendorPayment
	for _, p := range m.payments {
		if p.VendorID == vendorID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

func (m *MockVendorPaymentRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[id]; !ok {
		return domain.ErrPaymentNotFound
	}
	delete(m.payments, id)
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu     sync.RWMutex
	audits []*domain.ReconciliationAudit

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, audit *domain.ReconciliationAudit) error
	ListByPartyFunc func(ctx context.Context, partyID string, limit, offset int) ([]*domain.ReconciliationAudit, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, tx usecase.Transaction, audit *domain.ReconciliationAudit) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, audit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audits = append(m.audits, audit)
	return nil
}

func (m *MockAuditRepository) ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.ReconciliationAudit, error) {
	if m.ListByPartyFunc != nil {
		return m.ListByPartyFunc(ctx, partyID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var audits []*domain.ReconciliationAudit
	for _, a := range m.audits {
		if a.PartyID == partyID {
			audits = append(audits, a)
		}
	}
	return audits, nil
}

// Audits returns everything written so far.
func (m *MockAuditRepository) Audits() []*domain.ReconciliationAudit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.ReconciliationAudit, len(m.audits))
	copy(out, m.audits)
	return out
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			events = append(events, e)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns everything written so far.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockRetrier is a mock implementation of Retrier. The default runs the
// operation exactly once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string]string),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
