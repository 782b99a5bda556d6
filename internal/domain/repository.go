package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// MealPlanGateway is the boundary to the meal recommendation service.
//
// FetchPlan may return fewer meals than requested; a missing slot means the
// service could not satisfy that slot's constraint. FetchReplacement returns
// nil, nil when no meal matches. Transport failures wrap ErrTransportFailure.
type MealPlanGateway interface {
	FetchPlan(ctx context.Context, requests PlanRequests) ([]Meal, error)
	FetchReplacement(ctx context.Context, request MealRequest) (*Meal, error)
}

// PlanView receives presentation signals from the plan controller. The
// controller never reads back from it.
type PlanView interface {
	OnLoadingChanged(isLoading bool)
	OnPlanChanged(snapshot []Meal)
	OnError(kind ErrorKind)
}
