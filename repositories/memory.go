package repositories

import (
	"context"
	"sort"
	"sync"

	"ecowattch-server/entities"
)

// MemoryStore keeps users, dorms and offerings in process. It backs
// DB_DRIVER=memory and honors the same contracts as the gorm repositories,
// including the degraded mode for a missing SpendablePoints column.
type MemoryStore struct {
	mu                 sync.RWMutex
	users              map[string]entities.User
	dorms              map[string]int
	offerings          []entities.Offering
	hasSpendablePoints bool
}

// NewMemoryStore returns a store seeded with the competing dorms at zero.
func NewMemoryStore(hasSpendablePoints bool) *MemoryStore {
	s := &MemoryStore{
		users:              make(map[string]entities.User),
		dorms:              make(map[string]int),
		hasSpendablePoints: hasSpendablePoints,
	}
	for _, d := range entities.CompetingDorms {
		s.dorms[d] = 0
	}
	return s
}

// SeedDorm sets a dorm's total, adding the dorm if needed.
func (s *MemoryStore) SeedDorm(name string, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dorms[name] = total
}

// SeedOfferings replaces the catalog.
func (s *MemoryStore) SeedOfferings(offerings ...entities.Offering) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offerings = append([]entities.Offering(nil), offerings...)
}

func (s *MemoryStore) Users() UserRepository         { return memoryUsers{s} }
func (s *MemoryStore) Dorms() DormRepository         { return memoryDorms{s} }
func (s *MemoryStore) Offerings() OfferingRepository { return memoryOfferings{s} }

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	u, ok := m.s.users[username]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return copyUser(u), nil
}

func (m memoryUsers) Create(ctx context.Context, user *entities.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[user.Username]; ok {
		return entities.ErrConflict
	}
	if m.s.hasSpendablePoints {
		if user.SpendablePoints == nil {
			points := entities.DefaultSpendablePoints
			user.SpendablePoints = &points
		}
	} else {
		user.SpendablePoints = nil
	}
	m.s.users[user.Username] = *copyUser(*user)
	return nil
}

func (m memoryUsers) ReadSpendablePoints(ctx context.Context, username string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !m.s.hasSpendablePoints {
		return entities.DefaultSpendablePoints, nil
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	u, ok := m.s.users[username]
	if !ok {
		return 0, entities.ErrNotFound
	}
	return u.Balance(), nil
}

func (m memoryUsers) WriteSpendablePoints(ctx context.Context, username string, value int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !m.s.hasSpendablePoints {
		return false, nil
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[username]
	if !ok {
		return false, entities.ErrNotFound
	}
	u.SpendablePoints = &value
	m.s.users[username] = u
	return true, nil
}

func (m memoryUsers) DeductSpendablePoints(ctx context.Context, username string, expected, amount int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !m.s.hasSpendablePoints {
		return false, nil
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[username]
	if !ok {
		return false, entities.ErrNotFound
	}
	if u.Balance() != expected {
		return false, entities.ErrBalanceChanged
	}
	if amount > expected {
		return false, entities.ErrInsufficientBalance
	}
	left := expected - amount
	u.SpendablePoints = &left
	m.s.users[username] = u
	return true, nil
}

type memoryDorms struct{ s *MemoryStore }

func (m memoryDorms) IncrementPoints(ctx context.Context, deltas []entities.DormDelta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, d := range deltas {
		if total, ok := m.s.dorms[d.DormName]; ok {
			m.s.dorms[d.DormName] = total + d.Delta
		}
	}
	return nil
}

func (m memoryDorms) List(ctx context.Context) ([]entities.Dorm, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	dorms := make([]entities.Dorm, 0, len(m.s.dorms))
	for name, total := range m.s.dorms {
		dorms = append(dorms, entities.Dorm{DormName: name, TotalPoints: total})
	}
	sort.Slice(dorms, func(i, j int) bool {
		if dorms[i].TotalPoints != dorms[j].TotalPoints {
			return dorms[i].TotalPoints > dorms[j].TotalPoints
		}
		return dorms[i].DormName < dorms[j].DormName
	})
	return dorms, nil
}

type memoryOfferings struct{ s *MemoryStore }

func (m memoryOfferings) List(ctx context.Context) ([]entities.Offering, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	offerings := make([]entities.Offering, len(m.s.offerings))
	copy(offerings, m.s.offerings)
	return offerings, nil
}

func copyUser(u entities.User) *entities.User {
	c := u
	if u.DormName != nil {
		dorm := *u.DormName
		c.DormName = &dorm
	}
	if u.SpendablePoints != nil {
		points := *u.SpendablePoints
		c.SpendablePoints = &points
	}
	return &c
}
