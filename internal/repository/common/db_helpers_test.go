package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	"clients": {"id", "user_id", "name", "platform", "status", "date"},
}

func TestBuildSelect_FiltersAndOrder(t *testing.T) {
	query, args, err := testSchema.BuildSelect("clients",
		[]Filter{Eq("user_id", "u1"), Eq("status", "pending")},
		&Order{Column: "date", Descending: true},
	)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, user_id, name, platform, status, date FROM clients WHERE user_id = $1 AND status = $2 ORDER BY date DESC, id DESC",
		query)
	assert.Equal(t, []interface{}{"u1", "pending"}, args)
}

func TestBuildSelect_RejectsUnknownNames(t *testing.T) {
	_, _, err := testSchema.BuildSelect("users", nil, nil)
	assert.ErrorIs(t, err, ErrUnknownTable)

	_, _, err = testSchema.BuildSelect("clients", []Filter{Eq("password", "x")}, nil)
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, _, err = testSchema.BuildSelect("clients", nil, &Order{Column: "date; DROP TABLE clients"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestBuildSelect_RejectsUnknownOperator(t *testing.T) {
	_, _, err := testSchema.BuildSelect("clients", []Filter{{Column: "name", Op: "LIKE", Value: "%"}}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildCount(t *testing.T) {
	query, args, err := testSchema.BuildCount("clients", []Filter{Eq("user_id", "u1"), Gte("date", "2025-01-01")})
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM clients WHERE user_id = $1 AND date >= $2", query)
	assert.Equal(t, []interface{}{"u1", "2025-01-01"}, args)
}

func TestBuildInsert_SortsColumns(t *testing.T) {
	query, args, err := testSchema.BuildInsert("clients", Record{
		"user_id":  "u1",
		"name":     "Jane Doe",
		"platform": "Upwork",
		"status":   "pending",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO clients (name, platform, status, user_id) VALUES ($1, $2, $3, $4) RETURNING id, user_id, name, platform, status, date",
		query)
	assert.Equal(t, []interface{}{"Jane Doe", "Upwork", "pending", "u1"}, args)
}

func TestBuildInsert_Rejects(t *testing.T) {
	_, _, err := testSchema.BuildInsert("clients", Record{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = testSchema.BuildInsert("clients", Record{"id": "x", "owner": "y"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}
