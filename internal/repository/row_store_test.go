package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-flow/internal/models"
	"github.com/ignatzorin/freelance-flow/internal/repository/common"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestRowStore_SelectClients(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRowStore(db)

	userID := uuid.New()
	date := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "platform", "status", "date"}).
		AddRow(uuid.New(), userID, "Acme", "Upwork", "replied", date)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, name, platform, status, date FROM clients WHERE user_id = $1 ORDER BY date DESC, id DESC",
	)).WithArgs(userID).WillReturnRows(rows)

	var clients []models.Client
	err := store.Select(context.Background(), models.TableClients,
		[]common.Filter{common.Eq("user_id", userID)},
		&common.Order{Column: "date", Descending: true},
		&clients,
	)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Acme", clients[0].Name)
	assert.Equal(t, models.ClientStatusReplied, clients[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRowStore_Count(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRowStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM proposals WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := store.Count(context.Background(), models.TableProposals, []common.Filter{common.Eq("user_id", "u1")})
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestRowStore_CountError(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRowStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM clients")).
		WillReturnError(errors.New("db down"))

	_, err := store.Count(context.Background(), models.TableClients, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestRowStore_RejectsUnknownTable(t *testing.T) {
	db, _ := newMockDB(t)
	store := NewRowStore(db)

	_, err := store.Count(context.Background(), "users", nil)
	assert.ErrorIs(t, err, common.ErrUnknownTable)
}

func TestRowStore_InsertScansReturnedRow(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRowStore(db)

	userID := uuid.New()
	id := uuid.New()
	created := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO proposals (content, job_description, tone, user_id) VALUES ($1, $2, $3, $4) RETURNING id, user_id, content, tone, job_description, created_at",
	)).
		WithArgs("text", "job", "friendly", userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content", "tone", "job_description", "created_at"}).
			AddRow(id, userID, "text", "friendly", "job", created))

	var saved models.Proposal
	err := store.Insert(context.Background(), models.TableProposals, common.Record{
		"content":         "text",
		"tone":            "friendly",
		"job_description": "job",
		"user_id":         userID,
	}, &saved)
	require.NoError(t, err)
	assert.Equal(t, id, saved.ID)
	assert.Equal(t, models.ToneFriendly, saved.Tone)
}
