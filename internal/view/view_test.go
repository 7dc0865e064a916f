package view

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-flow/internal/goroutine"
	"github.com/ignatzorin/freelance-flow/internal/logger"
	"github.com/ignatzorin/freelance-flow/internal/models"
)

func recovery() *goroutine.RecoveryHandler {
	return goroutine.NewRecoveryHandler(logger.RecoveryLogger{})
}

func TestNavigation_ActiveItem(t *testing.T) {
	for _, route := range []string{RouteDashboard, RouteGenerate, RouteClients, RouteStats} {
		nav := Navigation(route, false)
		active := 0
		for _, item := range nav.Items {
			if item.Active {
				active++
				assert.Equal(t, route, item.Route)
			}
		}
		assert.Equal(t, 1, active, route)
	}

	nav := Navigation("/clients/", false)
	assert.True(t, nav.Items[2].Active)

	nav = Navigation(RouteLanding, false)
	for _, item := range nav.Items {
		assert.False(t, item.Active)
	}
}

func TestNavigation_Collapsed(t *testing.T) {
	expanded := Navigation(RouteStats, false)
	assert.Equal(t, BrandName, expanded.Brand)
	assert.Equal(t, "Generate Proposal", expanded.Items[1].Label)

	collapsed := Navigation(RouteStats, true)
	assert.Empty(t, collapsed.Brand)
	assert.Empty(t, collapsed.LogoutLabel)
	for _, item := range collapsed.Items {
		assert.Empty(t, item.Label)
		assert.NotEmpty(t, item.Route)
	}
	assert.True(t, collapsed.Items[3].Active)
}

type stubSessions struct {
	active bool
	err    error
}

func (s stubSessions) GetSession(ctx context.Context, token string) (bool, error) {
	return s.active, s.err
}

func (s stubSessions) SignOut(ctx context.Context, token string) error {
	return s.err
}

func TestLogout(t *testing.T) {
	res, err := Logout(context.Background(), stubSessions{}, "token")
	require.NoError(t, err)
	assert.Equal(t, models.Success(MsgLoggedOut), res.Notification)
	assert.Equal(t, RouteAuth, res.Redirect)

	res, err = Logout(context.Background(), stubSessions{err: errors.New("network")}, "token")
	require.Error(t, err)
	assert.Equal(t, models.Failure(MsgLogoutFailed), res.Notification)
	assert.Empty(t, res.Redirect)
}

func TestLanding(t *testing.T) {
	view := Landing(context.Background(), stubSessions{active: true}, "token")
	assert.Equal(t, RouteDashboard, view.Redirect)
	assert.Nil(t, view.Content)

	view = Landing(context.Background(), stubSessions{}, "")
	require.NotNil(t, view.Content)
	assert.Empty(t, view.Redirect)
	assert.Len(t, view.Content.Features, 3)

	ctas := append([]CallToAction{view.Content.NavCTA, view.Content.CTA}, view.Content.HeroCTAs...)
	for _, cta := range ctas {
		assert.Equal(t, RouteAuth, cta.Route, cta.Label)
	}

	view = Landing(context.Background(), stubSessions{err: errors.New("timeout")}, "token")
	assert.NotNil(t, view.Content)
}

func TestInstance_CommitsWhileMounted(t *testing.T) {
	inst := NewInstance(context.Background(), recovery())
	done := make(chan interface{}, 1)

	inst.Go("test", func(ctx context.Context) (interface{}, error) {
		return 42, nil
	}, func(result interface{}, err error) {
		done <- result
	})

	select {
	case got := <-done:
		assert.Equal(t, 42, got)
	case <-time.After(time.Second):
		t.Fatal("результат не зафиксирован")
	}
	inst.Teardown()
}

func TestInstance_TeardownDropsLateResults(t *testing.T) {
	inst := NewInstance(context.Background(), recovery())
	started := make(chan struct{})
	var committed atomic.Bool
	var sawCancel atomic.Bool

	inst.Go("test", func(ctx context.Context) (interface{}, error) {
		close(started)
		<-ctx.Done()
		sawCancel.Store(true)
		return nil, ctx.Err()
	}, func(result interface{}, err error) {
		committed.Store(true)
	})

	<-started
	inst.Teardown()
	inst.Wait()

	assert.True(t, sawCancel.Load(), "загрузка должна видеть отмену")
	assert.False(t, committed.Load(), "поздний результат не фиксируется")
	assert.True(t, inst.Disposed())

	inst.Go("after", func(ctx context.Context) (interface{}, error) {
		return 1, nil
	}, func(result interface{}, err error) {
		committed.Store(true)
	})
	inst.Wait()
	assert.False(t, committed.Load())
}

func TestInstance_PanicIsRecovered(t *testing.T) {
	inst := NewInstance(context.Background(), recovery())
	inst.Go("panics", func(ctx context.Context) (interface{}, error) {
		panic("boom")
	}, func(result interface{}, err error) {})
	inst.Wait()
	inst.Teardown()
}
