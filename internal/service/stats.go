package service

import (
	"context"
	"math"

	"github.com/ignatzorin/freelance-flow/internal/gateway"
	"github.com/ignatzorin/freelance-flow/internal/models"
	"github.com/ignatzorin/freelance-flow/internal/pkg/apperror"
)

// ChartPoint столбец гистограммы.
type ChartPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// PieSlice сектор круговой диаграммы.
type PieSlice struct {
	Name    string `json:"name"`
	Value   int    `json:"value"`
	Percent int    `json:"percent"`
	Color   string `json:"color"`
}

// StatusCard карточка статуса заказчиков.
type StatusCard struct {
	Status      models.ClientStatus `json:"status"`
	Title       string              `json:"title"`
	Value       int                 `json:"value"`
	Description string              `json:"description"`
	Tone        string              `json:"tone"`
	Failed      bool                `json:"failed"`
}

// StatsView содержимое страницы статистики.
type StatsView struct {
	Bar          []ChartPoint         `json:"bar"`
	Pie          []PieSlice           `json:"pie"`
	Cards        []StatusCard         `json:"cards"`
	Degraded     bool                 `json:"degraded"`
	Notification *models.Notification `json:"notification,omitempty"`
}

type statusMeta struct {
	key         string
	color       string
	description string
}

var statusPresentation = map[models.ClientStatus]statusMeta{
	models.ClientStatusReplied:  {key: countReplied, color: "hsl(142, 76%, 36%)", description: "Positive responses"},
	models.ClientStatusPending:  {key: countPending, color: "hsl(48, 96%, 53%)", description: "Awaiting response"},
	models.ClientStatusRejected: {key: countRejected, color: "hsl(0, 84%, 60%)", description: "Declined proposals"},
}

// StatsAggregator строит графики по откликам и статусам заказчиков.
type StatsAggregator struct{}

// NewStatsAggregator создаёт агрегатор статистики.
func NewStatsAggregator() *StatsAggregator {
	return &StatsAggregator{}
}

// Load выполняет четыре подсчёта параллельно; графики строятся после завершения всех.
func (a *StatsAggregator) Load(ctx context.Context, scope gateway.Scope) (*StatsView, error) {
	if scope == nil {
		return nil, apperror.ErrUnauthorized
	}

	queries := []countQuery{{key: countTotalProposals, table: models.TableProposals}}
	for _, status := range models.ClientStatuses {
		queries = append(queries, countQuery{
			key:     statusPresentation[status].key,
			table:   models.TableClients,
			filters: []gateway.Filter{gateway.Eq("status", string(status))},
		})
	}

	counts := countAll(ctx, scope, queries)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view := &StatsView{
		Bar: []ChartPoint{{Name: "Total Proposals", Value: counts[countTotalProposals].Value}},
	}

	total := 0
	for _, status := range models.ClientStatuses {
		total += counts[statusPresentation[status].key].Value
	}

	for _, status := range models.ClientStatuses {
		meta := statusPresentation[status]
		o := counts[meta.key]
		label := StatusLabel(status)

		view.Bar = append(view.Bar, ChartPoint{Name: label, Value: o.Value})
		view.Pie = append(view.Pie, PieSlice{
			Name:    label,
			Value:   o.Value,
			Percent: percent(o.Value, total),
			Color:   meta.color,
		})
		view.Cards = append(view.Cards, StatusCard{
			Status:      status,
			Title:       label,
			Value:       o.Value,
			Description: meta.description,
			Tone:        StatusTone(status),
			Failed:      o.Failed,
		})
	}

	if anyFailed(counts) {
		view.Degraded = true
		view.Notification = models.Failure(MsgStatsUnavailable)
	}

	return view, nil
}

// percent доля в целых процентах; при нулевом итоге 0.
func percent(value, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(value) * 100 / float64(total)))
}
