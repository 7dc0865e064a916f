package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-flow/internal/gateway"
	"github.com/ignatzorin/freelance-flow/internal/models"
)

// memoryStore хранит строки всех пользователей; memoryScope видит только свои.
type memoryStore struct {
	mu        sync.Mutex
	clients   []models.Client
	proposals []models.Proposal
	clock     time.Time
	failCount map[string]error
	failWrite error
	failRead  error
	inserts   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		clock:     time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
		failCount: make(map[string]error),
	}
}

// tick возвращает строго возрастающее время вставки.
func (s *memoryStore) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func (s *memoryStore) scope(userID uuid.UUID) gateway.Scope {
	return &memoryScope{store: s, userID: userID}
}

type memoryScope struct {
	store  *memoryStore
	userID uuid.UUID
}

func (m *memoryScope) UserID() uuid.UUID { return m.userID }

func (m *memoryScope) QueryRows(ctx context.Context, table string, filters []gateway.Filter, order *gateway.Order, dest interface{}) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if m.store.failRead != nil {
		return m.store.failRead
	}
	if table != models.TableClients {
		return fmt.Errorf("unexpected table %s", table)
	}

	out := dest.(*[]models.Client)
	*out = nil
	for _, c := range m.store.clients {
		if c.UserID == m.userID && matchClient(c, filters) {
			*out = append(*out, c)
		}
	}
	if order != nil && order.Column == "date" {
		sort.SliceStable(*out, func(i, j int) bool {
			if order.Descending {
				return (*out)[i].Date.After((*out)[j].Date)
			}
			return (*out)[i].Date.Before((*out)[j].Date)
		})
	}
	return nil
}

func (m *memoryScope) CountRows(ctx context.Context, table string, filters []gateway.Filter) (int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if err := m.store.failCount[countKey(table, filters)]; err != nil {
		return 0, err
	}

	n := 0
	switch table {
	case models.TableClients:
		for _, c := range m.store.clients {
			if c.UserID == m.userID && matchClient(c, filters) {
				n++
			}
		}
	case models.TableProposals:
		for _, p := range m.store.proposals {
			if p.UserID == m.userID && matchProposal(p, filters) {
				n++
			}
		}
	default:
		return 0, fmt.Errorf("unexpected table %s", table)
	}
	return n, nil
}

func (m *memoryScope) InsertRow(ctx context.Context, table string, record gateway.Record, dest interface{}) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if m.store.failWrite != nil {
		return m.store.failWrite
	}
	m.store.inserts++

	switch table {
	case models.TableClients:
		m.store.clients = append(m.store.clients, models.Client{
			ID:       uuid.New(),
			UserID:   m.userID,
			Name:     record["name"].(string),
			Platform: record["platform"].(string),
			Status:   models.ClientStatus(record["status"].(string)),
			Date:     m.store.tick(),
		})
	case models.TableProposals:
		m.store.proposals = append(m.store.proposals, models.Proposal{
			ID:             uuid.New(),
			UserID:         m.userID,
			Content:        record["content"].(string),
			Tone:           models.Tone(record["tone"].(string)),
			JobDescription: record["job_description"].(string),
			CreatedAt:      m.store.tick(),
		})
	default:
		return fmt.Errorf("unexpected table %s", table)
	}
	return nil
}

// countKey ключ для подмены ошибки конкретного подсчёта: "clients" или "clients:status".
func countKey(table string, filters []gateway.Filter) string {
	if len(filters) == 0 {
		return table
	}
	return table + ":" + filters[0].Column
}

func matchClient(c models.Client, filters []gateway.Filter) bool {
	for _, f := range filters {
		switch f.Column {
		case "status":
			if string(c.Status) != f.Value.(string) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func matchProposal(p models.Proposal, filters []gateway.Filter) bool {
	for _, f := range filters {
		switch {
		case f.Column == "created_at" && f.Op == gateway.OpGte:
			if p.CreatedAt.Before(f.Value.(time.Time)) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
