package usecase

import (
	"sync"
	"time"

	"github.com/macrohero/backend/internal/domain"
)

// PlanViewState is a read-only copy of what the view model last received.
type PlanViewState struct {
	Loading   bool
	Meals     []domain.Meal
	LastError domain.ErrorKind
	Version   int
	UpdatedAt time.Time
}

// PlanViewModel is the PlanView used by the HTTP layer. It records the
// signals it is given so a later request can render them.
type PlanViewModel struct {
	mu        sync.RWMutex
	loading   bool
	meals     []domain.Meal
	lastError domain.ErrorKind
	version   int
	updatedAt time.Time

	// OnLoading, when set, is called with every loading transition.
	OnLoading func(isLoading bool)
}

// NewPlanViewModel creates an empty view model
func NewPlanViewModel() *PlanViewModel {
	return &PlanViewModel{updatedAt: time.Now()}
}

func (v *PlanViewModel) OnLoadingChanged(isLoading bool) {
	v.mu.Lock()
	v.loading = isLoading
	v.updatedAt = time.Now()
	hook := v.OnLoading
	v.mu.Unlock()

	if hook != nil {
		hook(isLoading)
	}
}

func (v *PlanViewModel) OnPlanChanged(snapshot []domain.Meal) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.meals = snapshot
	v.lastError = ""
	v.version++
	v.updatedAt = time.Now()
}

func (v *PlanViewModel) OnError(kind domain.ErrorKind) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.lastError = kind
	v.updatedAt = time.Now()
}

// State returns a copy of the current view state
func (v *PlanViewModel) State() PlanViewState {
	v.mu.RLock()
	defer v.mu.RUnlock()

	meals := make([]domain.Meal, len(v.meals))
	copy(meals, v.meals)

	return PlanViewState{
		Loading:   v.loading,
		Meals:     meals,
		LastError: v.lastError,
		Version:   v.version,
		UpdatedAt: v.updatedAt,
	}
}

type noopView struct{}

func (noopView) OnLoadingChanged(bool)       {}
func (noopView) OnPlanChanged([]domain.Meal) {}
func (noopView) OnError(domain.ErrorKind)    {}
