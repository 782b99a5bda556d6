package usecase

import (
	"fmt"

	"github.com/macrohero/backend/internal/domain"
)

// PlanDefaults holds the starting constraints used for every slot of a new plan
type PlanDefaults struct {
	Calories          string
	Carbs             string
	Protein           string
	Fat               string
	Random            bool
	PriorityPrimary   string
	PrioritySecondary string
}

// NewMealRequest composes the request for one swappable slot.
func NewMealRequest(
	slot domain.MealSlot,
	constraint domain.MacroConstraint,
	randomize bool,
	priority domain.MacroPriority,
) (domain.MealRequest, error) {
	if !slot.Swappable() {
		return domain.MealRequest{}, fmt.Errorf("%w: no request can be built for %s", domain.ErrInvalidRequest, slot)
	}
	if err := constraint.Validate(); err != nil {
		return domain.MealRequest{}, err
	}
	if err := priority.Validate(); err != nil {
		return domain.MealRequest{}, err
	}

	return domain.MealRequest{
		Slot:       slot,
		Constraint: constraint,
		Randomize:  randomize,
		Priority:   priority,
	}, nil
}

// BuildPlanRequests builds the breakfast, lunch and dinner requests from the
// starting constraints. The same constraint applies to all three slots.
func BuildPlanRequests(defaults PlanDefaults) (domain.PlanRequests, error) {
	constraint, err := domain.ParseMacroConstraint(
		defaults.Calories, defaults.Carbs, defaults.Protein, defaults.Fat,
	)
	if err != nil {
		return domain.PlanRequests{}, err
	}

	primary, err := domain.ParseMacro(defaults.PriorityPrimary)
	if err != nil {
		return domain.PlanRequests{}, err
	}
	secondary, err := domain.ParseMacro(defaults.PrioritySecondary)
	if err != nil {
		return domain.PlanRequests{}, err
	}
	priority := domain.MacroPriority{Primary: primary, Secondary: secondary}

	var reqs domain.PlanRequests
	for _, slot := range domain.SwappableSlots {
		req, err := NewMealRequest(slot, constraint, defaults.Random, priority)
		if err != nil {
			return domain.PlanRequests{}, err
		}
		switch slot {
		case domain.Breakfast:
			reqs.Breakfast = req
		case domain.Lunch:
			reqs.Lunch = req
		case domain.Dinner:
			reqs.Dinner = req
		}
	}

	return reqs, nil
}
