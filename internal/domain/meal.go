package domain

import (
	"fmt"
	"strings"
)

// MealSlot identifies a position in the daily plan
type MealSlot int

const (
	Breakfast MealSlot = iota
	Lunch
	Dinner
	ProteinSupplement
)

// SwappableSlots are the slots that can be refreshed, in display order.
var SwappableSlots = []MealSlot{Breakfast, Lunch, Dinner}

// ParseMealSlot parses the wire name of a slot ("breakfast", "Lunch", "protein").
func ParseMealSlot(s string) (MealSlot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breakfast":
		return Breakfast, nil
	case "lunch":
		return Lunch, nil
	case "dinner":
		return Dinner, nil
	case "protein", "protein_supplement", "proteinsupplement":
		return ProteinSupplement, nil
	}
	return 0, fmt.Errorf("%w: unknown meal slot %q", ErrInvalidRequest, s)
}

// String returns the wire name of the slot.
func (s MealSlot) String() string {
	switch s {
	case Breakfast:
		return "breakfast"
	case Lunch:
		return "lunch"
	case Dinner:
		return "dinner"
	case ProteinSupplement:
		return "protein"
	}
	return fmt.Sprintf("slot(%d)", int(s))
}

// Label is the capitalised display name.
func (s MealSlot) Label() string {
	name := s.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// Swappable is false for the fixed supplement entry.
func (s MealSlot) Swappable() bool {
	return s == Breakfast || s == Lunch || s == Dinner
}

// DefaultOrder is the display position used when the service does not send one.
func (s MealSlot) DefaultOrder() int {
	return int(s)
}

// MealRequest asks the recommendation service for one meal.
type MealRequest struct {
	Slot       MealSlot
	Constraint MacroConstraint
	Randomize  bool
	Priority   MacroPriority
}

// PlanRequests carries one request per swappable slot.
type PlanRequests struct {
	Breakfast MealRequest
	Lunch     MealRequest
	Dinner    MealRequest
}

// For returns the request for slot; ok is false for non-swappable slots.
func (p PlanRequests) For(slot MealSlot) (MealRequest, bool) {
	switch slot {
	case Breakfast:
		return p.Breakfast, true
	case Lunch:
		return p.Lunch, true
	case Dinner:
		return p.Dinner, true
	}
	return MealRequest{}, false
}

// Meal is one entry of the plan.
type Meal struct {
	Name      string         `json:"name"`
	Slot      MealSlot       `json:"-"`
	SlotLabel string         `json:"type"`
	ImageRef  string         `json:"image"`
	Order     int            `json:"order"` // authoritative display position
	Macros    MacroBreakdown `json:"macros"`
}
