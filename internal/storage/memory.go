package storage

import (
	"context"
	"sort"
	"sync"

	"spendtrack/internal/core"
)

// MemoryRepository is an in-process Repository used by the memory backend
// and by tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	expenses map[string]core.Expense
	pending  map[string]bool
	order    []string // insertion order, for pending-categorization sweeps
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		expenses: make(map[string]core.Expense),
		pending:  make(map[string]bool),
	}
}

func (m *MemoryRepository) CreateExpense(ctx context.Context, e core.Expense, categorizationPending bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.expenses[e.ID]; exists {
		return ErrDuplicateID
	}
	m.expenses[e.ID] = e
	m.order = append(m.order, e.ID)
	if categorizationPending {
		m.pending[e.ID] = true
	}
	return nil
}

func (m *MemoryRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.expenses[id]
	if !ok {
		return core.Expense{}, ErrNotFound
	}
	return e, nil
}

func (m *MemoryRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.expenses[e.ID]; !ok {
		return ErrNotFound
	}
	m.expenses[e.ID] = e
	delete(m.pending, e.ID)
	return nil
}

func (m *MemoryRepository) DeleteExpense(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.expenses[id]; !ok {
		return ErrNotFound
	}
	delete(m.expenses, id)
	delete(m.pending, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryRepository) ListExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []core.Expense
	for _, e := range m.expenses {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryRepository) ExistingIDs(ctx context.Context) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make(map[string]bool, len(m.expenses))
	for id := range m.expenses {
		ids[id] = true
	}
	return ids, nil
}

func (m *MemoryRepository) ListPendingCategorization(ctx context.Context, limit int) ([]core.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []core.Expense
	for _, id := range m.order {
		if !m.pending[id] {
			continue
		}
		out = append(out, m.expenses[id])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryRepository) SetCategory(ctx context.Context, id string, category core.Category, pending bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.expenses[id]
	if !ok {
		return ErrNotFound
	}
	e.Category = category
	m.expenses[id] = e
	if pending {
		m.pending[id] = true
	} else {
		delete(m.pending, id)
	}
	return nil
}

func (m *MemoryRepository) Close() error { return nil }
