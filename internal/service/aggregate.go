package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/freelance-flow/internal/gateway"
	"github.com/ignatzorin/freelance-flow/internal/logger"
)

// MsgStatsUnavailable уведомление о неполных данных дашборда или статистики.
const MsgStatsUnavailable = "Some statistics could not be loaded"

// countQuery один точный подсчёт в пределах scope.
type countQuery struct {
	key     string
	table   string
	filters []gateway.Filter
}

// countOutcome результат подсчёта; при ошибке Value равен 0.
type countOutcome struct {
	Value  int
	Failed bool
}

// countAll выполняет подсчёты параллельно и возвращается, когда завершились все.
// Ошибка одного подсчёта не отменяет остальные.
func countAll(ctx context.Context, scope gateway.Scope, queries []countQuery) map[string]countOutcome {
	outcomes := make([]countOutcome, len(queries))

	var g errgroup.Group
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			value, err := scope.CountRows(ctx, q.table, q.filters)
			if err != nil {
				logger.Log.WithFields(map[string]interface{}{
					"user_id": scope.UserID(),
					"count":   q.key,
					"error":   err.Error(),
				}).Warn("aggregate: подсчёт не удался")
				outcomes[i] = countOutcome{Failed: true}
				return nil
			}
			outcomes[i] = countOutcome{Value: value}
			return nil
		})
	}
	_ = g.Wait()

	result := make(map[string]countOutcome, len(queries))
	for i, q := range queries {
		result[q.key] = outcomes[i]
	}
	return result
}

// anyFailed сообщает, был ли хотя бы один неудачный подсчёт.
func anyFailed(outcomes map[string]countOutcome) bool {
	for _, o := range outcomes {
		if o.Failed {
			return true
		}
	}
	return false
}
