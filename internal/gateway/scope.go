package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-flow/internal/repository/common"
)

// OwnerColumn колонка владельца строки во всех пользовательских таблицах.
const OwnerColumn = "user_id"

type (
	Filter = common.Filter
	Order  = common.Order
	Record = common.Record
)

const (
	OpEq  = common.OpEq
	OpGte = common.OpGte
)

// Eq фильтр на равенство.
func Eq(column string, value interface{}) Filter { return common.Eq(column, value) }

// Gte фильтр "больше или равно".
func Gte(column string, value interface{}) Filter { return common.Gte(column, value) }

// Scope доступ к данным одного пользователя. Все чтения ограничены его строками,
// все записи получают его user_id.
type Scope interface {
	UserID() uuid.UUID
	QueryRows(ctx context.Context, table string, filters []Filter, order *Order, dest interface{}) error
	CountRows(ctx context.Context, table string, filters []Filter) (int, error)
	InsertRow(ctx context.Context, table string, record Record, dest interface{}) error
}

// RowStore хранилище строк, поверх которого строится Scope.
type RowStore interface {
	Select(ctx context.Context, table string, filters []common.Filter, order *common.Order, dest interface{}) error
	Count(ctx context.Context, table string, filters []common.Filter) (int, error)
	Insert(ctx context.Context, table string, record common.Record, dest interface{}) error
}

type userScope struct {
	userID uuid.UUID
	rows   RowStore
}

// NewScope создаёт scope пользователя userID поверх rows.
func NewScope(userID uuid.UUID, rows RowStore) Scope {
	return &userScope{userID: userID, rows: rows}
}

func (s *userScope) UserID() uuid.UUID {
	return s.userID
}

func (s *userScope) QueryRows(ctx context.Context, table string, filters []Filter, order *Order, dest interface{}) error {
	if err := s.rows.Select(ctx, table, s.owned(filters), order, dest); err != nil {
		return fmt.Errorf("gateway: query %s: %w", table, err)
	}
	return nil
}

func (s *userScope) CountRows(ctx context.Context, table string, filters []Filter) (int, error) {
	count, err := s.rows.Count(ctx, table, s.owned(filters))
	if err != nil {
		return 0, fmt.Errorf("gateway: count %s: %w", table, err)
	}
	return count, nil
}

func (s *userScope) InsertRow(ctx context.Context, table string, record Record, dest interface{}) error {
	stamped := make(Record, len(record)+1)
	for column, value := range record {
		stamped[column] = value
	}
	stamped[OwnerColumn] = s.userID

	if err := s.rows.Insert(ctx, table, stamped, dest); err != nil {
		return fmt.Errorf("gateway: insert %s: %w", table, err)
	}
	return nil
}

// owned ставит фильтр по владельцу первым; фильтры вызывающего по user_id отбрасываются.
func (s *userScope) owned(filters []Filter) []Filter {
	out := make([]Filter, 0, len(filters)+1)
	out = append(out, Eq(OwnerColumn, s.userID))
	for _, f := range filters {
		if f.Column == OwnerColumn {
			continue
		}
		out = append(out, f)
	}
	return out
}
