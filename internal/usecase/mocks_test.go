package usecase

import (
	"context"
	"sync"

	"github.com/macrohero/backend/internal/domain"
)

// MockGateway is a mock implementation of domain.MealPlanGateway
type MockGateway struct {
	mu           sync.Mutex
	planMeals    []domain.Meal
	planErr      error
	replacements map[domain.MealSlot]*domain.Meal
	replaceErr   error

	planCalls    int
	replaceCalls map[domain.MealSlot]int
	lastRequest  domain.MealRequest

	// When block is set, calls report on started and wait for block to close.
	block   chan struct{}
	started chan domain.MealSlot
}

func NewMockGateway() *MockGateway {
	return &MockGateway{
		replacements: make(map[domain.MealSlot]*domain.Meal),
		replaceCalls: make(map[domain.MealSlot]int),
	}
}

// Blocking makes every call wait until the returned release func is called.
func (m *MockGateway) Blocking() (started <-chan domain.MealSlot, release func()) {
	m.block = make(chan struct{})
	m.started = make(chan domain.MealSlot, 16)
	var once sync.Once
	return m.started, func() { once.Do(func() { close(m.block) }) }
}

func (m *MockGateway) wait(ctx context.Context, slot domain.MealSlot) error {
	if m.block == nil {
		return nil
	}
	m.started <- slot
	select {
	case <-m.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockGateway) FetchPlan(ctx context.Context, requests domain.PlanRequests) ([]domain.Meal, error) {
	m.mu.Lock()
	m.planCalls++
	m.mu.Unlock()

	// -1 marks the full-plan call on the started channel
	if err := m.wait(ctx, domain.MealSlot(-1)); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.planErr != nil {
		return nil, m.planErr
	}
	meals := make([]domain.Meal, len(m.planMeals))
	copy(meals, m.planMeals)
	return meals, nil
}

func (m *MockGateway) FetchReplacement(ctx context.Context, request domain.MealRequest) (*domain.Meal, error) {
	m.mu.Lock()
	m.replaceCalls[request.Slot]++
	m.lastRequest = request
	m.mu.Unlock()

	if err := m.wait(ctx, request.Slot); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replaceErr != nil {
		return nil, m.replaceErr
	}
	return m.replacements[request.Slot], nil
}

func (m *MockGateway) PlanCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.planCalls
}

func (m *MockGateway) ReplaceCalls(slot domain.MealSlot) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replaceCalls[slot]
}

// RecordingView is a domain.PlanView that remembers every signal
type RecordingView struct {
	mu      sync.Mutex
	loading []bool
	plans   [][]domain.Meal
	errors  []domain.ErrorKind
}

func (v *RecordingView) OnLoadingChanged(isLoading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = append(v.loading, isLoading)
}

func (v *RecordingView) OnPlanChanged(snapshot []domain.Meal) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.plans = append(v.plans, snapshot)
}

func (v *RecordingView) OnError(kind domain.ErrorKind) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, kind)
}

func (v *RecordingView) Loading() []bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]bool(nil), v.loading...)
}

func (v *RecordingView) Plans() [][]domain.Meal {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([][]domain.Meal(nil), v.plans...)
}

func (v *RecordingView) Errors() []domain.ErrorKind {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.ErrorKind(nil), v.errors...)
}

func meal(name string, slot domain.MealSlot) domain.Meal {
	return domain.Meal{
		Name:      name,
		Slot:      slot,
		SlotLabel: slot.Label(),
		ImageRef:  "defaultMealImage",
		Order:     slot.DefaultOrder(),
		Macros:    domain.MacroBreakdown{Calories: 400, Carbs: 40, Protein: 30, Fat: 12},
	}
}

func mealPtr(name string, slot domain.MealSlot) *domain.Meal {
	m := meal(name, slot)
	return &m
}

func testPlanRequests() domain.PlanRequests {
	reqs, err := BuildPlanRequests(PlanDefaults{
		Calories:          "100+",
		Carbs:             "20+",
		Protein:           "15+",
		Fat:               "10+",
		Random:            true,
		PriorityPrimary:   "calories",
		PrioritySecondary: "protein",
	})
	if err != nil {
		panic(err)
	}
	return reqs
}

func names(meals []domain.Meal) []string {
	out := make([]string, len(meals))
	for i, m := range meals {
		out[i] = m.Name
	}
	return out
}
