package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-flow/internal/models"
)

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("jane@example.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id, time.Now()))

	user := &models.User{Email: "jane@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, id, user.ID)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.User{Email: "jane@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserRepository_GetByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`)).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_GetSessionByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	sessionID := uuid.New()
	userID := uuid.New()
	expires := time.Now().Add(time.Hour)

	mock.ExpectQuery(`FROM user_sessions`).
		WithArgs(sessionID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "refresh_token", "user_agent", "ip_address", "expires_at", "created_at"}).
			AddRow(sessionID, userID, "refresh", nil, nil, expires, time.Now()))

	session, err := repo.GetSessionByID(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	assert.Nil(t, session.UserAgent)
}

func TestUserRepository_DeleteSessionByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	sessionID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM user_sessions WHERE id = $1`)).
		WithArgs(sessionID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteSessionByID(context.Background(), sessionID))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM user_sessions WHERE id = $1`)).
		WithArgs(sessionID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteSessionByID(context.Background(), sessionID), ErrSessionNotFound)
}
