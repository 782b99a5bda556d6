package metrics

import (
	"context"
	"time"

	"github.com/macrohero/backend/internal/domain"
)

const (
	operationPlan        = "plan"
	operationReplacement = "replacement"

	outcomeOK    = "ok"
	outcomeEmpty = "empty"
	outcomeError = "error"
)

// InstrumentedGateway records call counts and latency for a MealPlanGateway.
type InstrumentedGateway struct {
	next domain.MealPlanGateway
}

// InstrumentGateway wraps next with metrics collection.
func InstrumentGateway(next domain.MealPlanGateway) *InstrumentedGateway {
	return &InstrumentedGateway{next: next}
}

func (g *InstrumentedGateway) FetchPlan(ctx context.Context, requests domain.PlanRequests) ([]domain.Meal, error) {
	start := time.Now()
	meals, err := g.next.FetchPlan(ctx, requests)
	observeGatewayCall(operationPlan, start, err, len(meals) > 0)
	return meals, err
}

func (g *InstrumentedGateway) FetchReplacement(ctx context.Context, request domain.MealRequest) (*domain.Meal, error) {
	start := time.Now()
	meal, err := g.next.FetchReplacement(ctx, request)
	observeGatewayCall(operationReplacement, start, err, meal != nil)
	return meal, err
}

func observeGatewayCall(operation string, start time.Time, err error, found bool) {
	outcome := outcomeOK
	switch {
	case err != nil:
		outcome = outcomeError
	case !found:
		outcome = outcomeEmpty
	}
	gatewayRequests.WithLabelValues(operation, outcome).Inc()
	gatewayDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
