package service

import (
	"context"
	"time"

	"github.com/ignatzorin/freelance-flow/internal/gateway"
	"github.com/ignatzorin/freelance-flow/internal/models"
	"github.com/ignatzorin/freelance-flow/internal/pkg/apperror"
)

// RecentWindow окно "This Week" на дашборде.
const RecentWindow = 7 * 24 * time.Hour

const (
	countTotalProposals  = "total_proposals"
	countTotalClients    = "total_clients"
	countPendingClients  = "pending_clients"
	countRecentProposals = "recent_proposals"
	countReplied         = "replied"
	countPending         = "pending"
	countRejected        = "rejected"
)

// Tile плитка с числом.
type Tile struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Value       int    `json:"value"`
	Description string `json:"description"`
	Failed      bool   `json:"failed"`
}

// QuickAction ссылка быстрого перехода.
type QuickAction struct {
	Route       string `json:"route"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DashboardView содержимое дашборда.
type DashboardView struct {
	Tiles        []Tile               `json:"tiles"`
	QuickActions []QuickAction        `json:"quick_actions"`
	Degraded     bool                 `json:"degraded"`
	Notification *models.Notification `json:"notification,omitempty"`
}

var quickActions = []QuickAction{
	{Route: "/generate", Title: "Generate Proposal", Description: "Create AI-powered proposals for your clients"},
	{Route: "/clients", Title: "Manage Clients", Description: "Track and organize your client relationships"},
}

// DashboardAggregator собирает сводку по откликам и заказчикам.
type DashboardAggregator struct {
	now func() time.Time
}

// NewDashboardAggregator создаёт агрегатор; now задаёт часы для окна недели.
func NewDashboardAggregator(now func() time.Time) *DashboardAggregator {
	if now == nil {
		now = time.Now
	}
	return &DashboardAggregator{now: now}
}

// Load выполняет четыре подсчёта параллельно и строит плитки после завершения всех.
func (a *DashboardAggregator) Load(ctx context.Context, scope gateway.Scope) (*DashboardView, error) {
	if scope == nil {
		return nil, apperror.ErrUnauthorized
	}

	since := a.now().Add(-RecentWindow)
	counts := countAll(ctx, scope, []countQuery{
		{key: countTotalProposals, table: models.TableProposals},
		{key: countTotalClients, table: models.TableClients},
		{key: countPendingClients, table: models.TableClients, filters: []gateway.Filter{
			gateway.Eq("status", string(models.ClientStatusPending)),
		}},
		{key: countRecentProposals, table: models.TableProposals, filters: []gateway.Filter{
			gateway.Gte("created_at", since),
		}},
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tile := func(key, title, description string) Tile {
		o := counts[key]
		return Tile{Key: key, Title: title, Value: o.Value, Description: description, Failed: o.Failed}
	}

	view := &DashboardView{
		Tiles: []Tile{
			tile(countTotalProposals, "Total Proposals", "All generated proposals"),
			tile(countTotalClients, "Total Clients", "Active clients"),
			tile(countPendingClients, "Pending Clients", "Awaiting response"),
			tile(countRecentProposals, "This Week", "Proposals generated"),
		},
		QuickActions: quickActions,
	}
	if anyFailed(counts) {
		view.Degraded = true
		view.Notification = models.Failure(MsgStatsUnavailable)
	}

	return view, nil
}
