package usecase

import (
	"fmt"
	"sort"

	"github.com/macrohero/backend/internal/domain"
)

// MealPlanStore holds the current plan, at most one meal per slot.
//
// The store has a single writer (the controller) and does no locking of
// its own. The ordered view is rebuilt once per mutation so reads never sort.
type MealPlanStore struct {
	meals   []domain.Meal
	ordered []domain.Meal
}

// NewMealPlanStore creates an empty store
func NewMealPlanStore() *MealPlanStore {
	return &MealPlanStore{}
}

// SetFull replaces the whole plan. When two meals share a slot the later one wins.
func (s *MealPlanStore) SetFull(meals []domain.Meal) {
	deduped := make([]domain.Meal, 0, len(meals))
	index := make(map[domain.MealSlot]int, len(meals))

	for _, meal := range meals {
		if i, seen := index[meal.Slot]; seen {
			deduped[i] = meal
			continue
		}
		index[meal.Slot] = len(deduped)
		deduped = append(deduped, meal)
	}

	s.meals = deduped
	s.reorder()
}

// Replace swaps whatever meal currently occupies slot for meal. An empty slot
// is simply filled.
func (s *MealPlanStore) Replace(slot domain.MealSlot, meal domain.Meal) error {
	if meal.Slot != slot {
		return fmt.Errorf("%w: %s meal offered for %s", domain.ErrSlotMismatch, meal.Slot, slot)
	}

	kept := make([]domain.Meal, 0, len(s.meals)+1)
	for _, existing := range s.meals {
		if existing.Slot != slot {
			kept = append(kept, existing)
		}
	}

	s.meals = append(kept, meal)
	s.reorder()
	return nil
}

// Get returns the meal for slot, if any
func (s *MealPlanStore) Get(slot domain.MealSlot) (domain.Meal, bool) {
	for _, meal := range s.meals {
		if meal.Slot == slot {
			return meal, true
		}
	}
	return domain.Meal{}, false
}

// Len returns the number of meals in the plan
func (s *MealPlanStore) Len() int {
	return len(s.meals)
}

// OrderedSnapshot returns a copy of the plan sorted ascending by Order.
func (s *MealPlanStore) OrderedSnapshot() []domain.Meal {
	snapshot := make([]domain.Meal, len(s.ordered))
	copy(snapshot, s.ordered)
	return snapshot
}

func (s *MealPlanStore) reorder() {
	ordered := make([]domain.Meal, len(s.meals))
	copy(ordered, s.meals)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Order != ordered[j].Order {
			return ordered[i].Order < ordered[j].Order
		}
		return ordered[i].Slot < ordered[j].Slot
	})
	s.ordered = ordered
}
