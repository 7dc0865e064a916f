package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-flow/internal/models"
	"github.com/ignatzorin/freelance-flow/internal/repository/common"
)

// UserSchema перечисляет таблицы, к которым пользователь обращается через scope,
// и их колонки в порядке выборки.
var UserSchema = common.Schema{
	models.TableClients:   {"id", "user_id", "name", "platform", "status", "date"},
	models.TableProposals: {"id", "user_id", "content", "tone", "job_description", "created_at"},
}

// RowStore выполняет обобщённые запросы к таблицам из белого списка.
// Фильтрацию по владельцу добавляет вызывающая сторона (gateway.Scope).
type RowStore struct {
	db     *sqlx.DB
	schema common.Schema
}

// NewRowStore создаёт хранилище строк поверх UserSchema.
func NewRowStore(db *sqlx.DB) *RowStore {
	return &RowStore{db: db, schema: UserSchema}
}

// Select загружает строки в dest (указатель на срез структур).
func (s *RowStore) Select(ctx context.Context, table string, filters []common.Filter, order *common.Order, dest interface{}) error {
	query, args, err := s.schema.BuildSelect(table, filters, order)
	if err != nil {
		return fmt.Errorf("row store: select %s: %w", table, err)
	}

	if err := s.db.SelectContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("row store: select %s: %w", table, err)
	}

	return nil
}

// Count возвращает точное количество строк.
func (s *RowStore) Count(ctx context.Context, table string, filters []common.Filter) (int, error) {
	query, args, err := s.schema.BuildCount(table, filters)
	if err != nil {
		return 0, fmt.Errorf("row store: count %s: %w", table, err)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("row store: count %s: %w", table, err)
	}

	return count, nil
}

// Insert вставляет запись и сканирует сохранённую строку в dest, если он задан.
func (s *RowStore) Insert(ctx context.Context, table string, record common.Record, dest interface{}) error {
	query, args, err := s.schema.BuildInsert(table, record)
	if err != nil {
		return fmt.Errorf("row store: insert %s: %w", table, err)
	}

	row := s.db.QueryRowxContext(ctx, query, args...)
	if dest == nil {
		discard := map[string]interface{}{}
		if err := row.MapScan(discard); err != nil {
			return fmt.Errorf("row store: insert %s: %w", table, err)
		}
		return nil
	}

	if err := row.StructScan(dest); err != nil {
		return fmt.Errorf("row store: insert %s: %w", table, err)
	}

	return nil
}
