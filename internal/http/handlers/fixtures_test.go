package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-flow/internal/gateway"
	"github.com/ignatzorin/freelance-flow/internal/http/middleware"
	"github.com/ignatzorin/freelance-flow/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeScope scope поверх памяти. Счётчики задаются ключом "table" или "table:value",
// где value значение первого фильтра.
type fakeScope struct {
	userID     uuid.UUID
	clients    []models.Client
	counts     map[string]int
	failCounts map[string]bool
	failRead   bool
	failWrite  bool

	mu      sync.Mutex
	inserts []gateway.Record
}

func newFakeScope() *fakeScope {
	return &fakeScope{
		userID:     uuid.New(),
		counts:     map[string]int{},
		failCounts: map[string]bool{},
	}
}

func (s *fakeScope) UserID() uuid.UUID { return s.userID }

func (s *fakeScope) QueryRows(ctx context.Context, table string, filters []gateway.Filter, order *gateway.Order, dest interface{}) error {
	if s.failRead {
		return fmt.Errorf("query %s: connection reset", table)
	}
	rows, ok := dest.(*[]models.Client)
	if !ok {
		return fmt.Errorf("unexpected dest %T", dest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	*rows = append([]models.Client(nil), s.clients...)
	return nil
}

func (s *fakeScope) CountRows(ctx context.Context, table string, filters []gateway.Filter) (int, error) {
	key := table
	if len(filters) > 0 {
		key = fmt.Sprintf("%s:%v", table, filters[0].Value)
		if filters[0].Op == gateway.OpGte {
			key = table + ":recent"
		}
	}
	if s.failCounts[key] {
		return 0, fmt.Errorf("count %s: timeout", key)
	}
	return s.counts[key], nil
}

func (s *fakeScope) InsertRow(ctx context.Context, table string, record gateway.Record, dest interface{}) error {
	if s.failWrite {
		return fmt.Errorf("insert %s: connection reset", table)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts = append(s.inserts, record)
	if table == models.TableClients {
		s.clients = append([]models.Client{{
			ID:       uuid.New(),
			UserID:   s.userID,
			Name:     record["name"].(string),
			Platform: record["platform"].(string),
			Status:   models.ClientStatus(record["status"].(string)),
		}}, s.clients...)
	}
	return nil
}

func (s *fakeScope) insertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inserts)
}

// recordingNotifier запоминает разосланные уведомления.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []*models.Notification
}

func (n *recordingNotifier) Notify(userID uuid.UUID, notification *models.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// withSession кладёт пользователя и scope в контекст так же, как auth middleware.
func withSession(scope *fakeScope) gin.HandlerFunc {
	return func(c *gin.Context) {
		if scope != nil {
			c.Set(middleware.ContextUserKey, &models.User{ID: scope.userID, Email: "user@example.com"})
			c.Set(middleware.ContextScopeKey, gateway.Scope(scope))
			c.Set(middleware.ContextTokenKey, "access-token")
		}
		c.Next()
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

func notificationOf(t *testing.T, w *httptest.ResponseRecorder) models.Notification {
	t.Helper()
	var body struct {
		Notification models.Notification `json:"notification"`
	}
	decode(t, w, &body)
	return body.Notification
}

// assertStatus проверяет статус и печатает тело при несовпадении.
func assertStatus(t *testing.T, want int, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("ожидали статус %d, получили %d: %s", want, w.Code, w.Body.String())
	}
}
