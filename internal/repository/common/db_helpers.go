package common

import (
	"fmt"
	"sort"
	"strings"
)

// Op оператор сравнения в фильтре.
type Op string

const (
	OpEq  Op = "="
	OpGte Op = ">="
)

// Filter условие вида "column op value".
type Filter struct {
	Column string
	Op     Op
	Value  interface{}
}

// Eq создаёт фильтр на равенство.
func Eq(column string, value interface{}) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// Gte создаёт фильтр "больше или равно".
func Gte(column string, value interface{}) Filter {
	return Filter{Column: column, Op: OpGte, Value: value}
}

// Order ключ сортировки.
type Order struct {
	Column     string
	Descending bool
}

// Record значения колонок для вставки.
type Record map[string]interface{}

// Schema белый список таблиц и колонок: имена подставляются в SQL напрямую,
// поэтому всё, что приходит снаружи, проверяется по нему.
type Schema map[string][]string

// hasColumn проверяет, что колонка есть в таблице.
func (s Schema) hasColumn(table, column string) bool {
	for _, c := range s[table] {
		if c == column {
			return true
		}
	}
	return false
}

func (s Schema) checkTable(table string) error {
	if _, ok := s[table]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return nil
}

// whereClause собирает WHERE с плейсхолдерами $1..$n.
func (s Schema) whereClause(table string, filters []Filter) (string, []interface{}, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	parts := make([]string, 0, len(filters))
	args := make([]interface{}, 0, len(filters))
	for i, f := range filters {
		if !s.hasColumn(table, f.Column) {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, f.Column)
		}
		switch f.Op {
		case OpEq, OpGte:
		default:
			return "", nil, fmt.Errorf("%w: оператор %q", ErrInvalidInput, f.Op)
		}
		parts = append(parts, fmt.Sprintf("%s %s $%d", f.Column, f.Op, i+1))
		args = append(args, f.Value)
	}

	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

// BuildSelect формирует SELECT всех колонок таблицы с фильтрами и сортировкой.
func (s Schema) BuildSelect(table string, filters []Filter, order *Order) (string, []interface{}, error) {
	if err := s.checkTable(table); err != nil {
		return "", nil, err
	}

	where, args, err := s.whereClause(table, filters)
	if err != nil {
		return "", nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s", strings.Join(s[table], ", "), table, where)

	if order != nil {
		if !s.hasColumn(table, order.Column) {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, order.Column)
		}
		direction := "ASC"
		if order.Descending {
			direction = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s, id %s", order.Column, direction, direction)
	}

	return query, args, nil
}

// BuildCount формирует точный COUNT(*) с фильтрами.
func (s Schema) BuildCount(table string, filters []Filter) (string, []interface{}, error) {
	if err := s.checkTable(table); err != nil {
		return "", nil, err
	}

	where, args, err := s.whereClause(table, filters)
	if err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, where), args, nil
}

// BuildInsert формирует INSERT ... RETURNING со всеми колонками таблицы.
// Колонки сортируются, чтобы текст запроса был стабильным.
func (s Schema) BuildInsert(table string, record Record) (string, []interface{}, error) {
	if err := s.checkTable(table); err != nil {
		return "", nil, err
	}
	if len(record) == 0 {
		return "", nil, fmt.Errorf("%w: пустая запись для %s", ErrInvalidInput, table)
	}

	columns := make([]string, 0, len(record))
	for column := range record {
		if !s.hasColumn(table, column) {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	placeholders := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, column := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = record[column]
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(s[table], ", "),
	)

	return query, args, nil
}
