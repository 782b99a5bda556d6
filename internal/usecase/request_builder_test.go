package usecase

import (
	"errors"
	"testing"

	"github.com/macrohero/backend/internal/domain"
)

func TestNewMealRequest(t *testing.T) {
	constraint, _ := domain.ParseMacroConstraint("100+", "20+", "15+", "10+")
	priority := domain.MacroPriority{Primary: domain.MacroCalories, Secondary: domain.MacroProtein}

	t.Run("builds request for swappable slot", func(t *testing.T) {
		req, err := NewMealRequest(domain.Lunch, constraint, true, priority)
		if err != nil {
			t.Fatalf("NewMealRequest() error = %v", err)
		}
		if req.Slot != domain.Lunch || !req.Randomize || req.Priority != priority {
			t.Errorf("NewMealRequest() = %+v", req)
		}
	})

	t.Run("rejects protein supplement", func(t *testing.T) {
		_, err := NewMealRequest(domain.ProteinSupplement, constraint, true, priority)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("rejects incomplete constraint", func(t *testing.T) {
		partial := domain.MacroConstraint{Calories: domain.AtLeast(100)}
		_, err := NewMealRequest(domain.Breakfast, partial, true, priority)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("rejects duplicate priority", func(t *testing.T) {
		dup := domain.MacroPriority{Primary: domain.MacroFat, Secondary: domain.MacroFat}
		_, err := NewMealRequest(domain.Dinner, constraint, false, dup)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})
}

func TestBuildPlanRequests(t *testing.T) {
	defaults := PlanDefaults{
		Calories:          "100+",
		Carbs:             "20+",
		Protein:           "15+",
		Fat:               "10+",
		Random:            true,
		PriorityPrimary:   "calories",
		PrioritySecondary: "protein",
	}

	t.Run("one request per swappable slot", func(t *testing.T) {
		reqs, err := BuildPlanRequests(defaults)
		if err != nil {
			t.Fatalf("BuildPlanRequests() error = %v", err)
		}

		for _, slot := range domain.SwappableSlots {
			req, ok := reqs.For(slot)
			if !ok {
				t.Fatalf("no request for %s", slot)
			}
			if req.Slot != slot {
				t.Errorf("request for %s has slot %s", slot, req.Slot)
			}
			if req.Constraint.Calories.String() != "100+" {
				t.Errorf("calories = %s, want 100+", req.Constraint.Calories)
			}
			if req.Priority.Primary != domain.MacroCalories || req.Priority.Secondary != domain.MacroProtein {
				t.Errorf("priority = %+v", req.Priority)
			}
		}
	})

	tests := []struct {
		name   string
		mutate func(d *PlanDefaults)
	}{
		{"bad calories", func(d *PlanDefaults) { d.Calories = "many" }},
		{"missing fat", func(d *PlanDefaults) { d.Fat = "" }},
		{"unknown primary", func(d *PlanDefaults) { d.PriorityPrimary = "sugar" }},
		{"same priorities", func(d *PlanDefaults) { d.PrioritySecondary = "calories" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := defaults
			tt.mutate(&d)
			if _, err := BuildPlanRequests(d); !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}
