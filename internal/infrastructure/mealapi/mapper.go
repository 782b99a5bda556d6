package mealapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/macrohero/backend/internal/domain"
)

// DefaultMealImage is used when the service sends a meal without a photo
const DefaultMealImage = "defaultMealImage"

// macroPlan is the wire form of a constraint: each bound as a string like "100+"
type macroPlan struct {
	Calories string `json:"calories"`
	Carbs    string `json:"carbs"`
	Protein  string `json:"protein"`
	Fat      string `json:"fat"`
}

type macroPriority struct {
	Macro1 string `json:"macro1"`
	Macro2 string `json:"macro2"`
}

type mealRequest struct {
	Type          string        `json:"type"`
	Macros        macroPlan     `json:"macros"`
	Random        bool          `json:"random"`
	MacroPriority macroPriority `json:"macroPriority"`
}

type planRequest struct {
	Breakfast mealRequest `json:"breakfast"`
	Lunch     mealRequest `json:"lunch"`
	Dinner    mealRequest `json:"dinner"`
}

// mealInfo is one meal as returned by the service. Every field is optional
// on the wire.
type mealInfo struct {
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Image     string          `json:"image"`
	MealOrder *int            `json:"mealOrder"`
	Macros    *macroBreakdown `json:"macros"`
}

type macroBreakdown struct {
	Calories flexNumber `json:"calories"`
	Carbs    flexNumber `json:"carbs"`
	Protein  flexNumber `json:"protein"`
	Fat      flexNumber `json:"fat"`
}

// leadingNumberRegex pulls the number out of values like "40g" or "350 kcal"
var leadingNumberRegex = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)

// flexNumber accepts both JSON numbers and strings with a unit suffix.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*n = 0
			return nil
		}
		match := leadingNumberRegex.FindStringSubmatch(s)
		if match == nil {
			return fmt.Errorf("not a macro value: %q", s)
		}
		v, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return err
		}
		*n = flexNumber(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = flexNumber(v)
	return nil
}

// toWireRequest converts a domain request to the service's request body
func toWireRequest(req domain.MealRequest) mealRequest {
	return mealRequest{
		Type: req.Slot.String(),
		Macros: macroPlan{
			Calories: req.Constraint.Calories.String(),
			Carbs:    req.Constraint.Carbs.String(),
			Protein:  req.Constraint.Protein.String(),
			Fat:      req.Constraint.Fat.String(),
		},
		Random: req.Randomize,
		MacroPriority: macroPriority{
			Macro1: string(req.Priority.Primary),
			Macro2: string(req.Priority.Secondary),
		},
	}
}

func toWirePlanRequest(reqs domain.PlanRequests) planRequest {
	return planRequest{
		Breakfast: toWireRequest(reqs.Breakfast),
		Lunch:     toWireRequest(reqs.Lunch),
		Dinner:    toWireRequest(reqs.Dinner),
	}
}

// decodeMeal decodes and maps one meal object. A value that does not fit
// the meal shape, such as a macro of "n/a", rejects only that meal.
func decodeMeal(raw json.RawMessage) (domain.Meal, error) {
	var info mealInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return domain.Meal{}, fmt.Errorf("malformed meal: %w", err)
	}
	return mapToMeal(info)
}

// mapToMeal converts a service meal to our domain Meal. Meals without a
// name, a known type or macros are rejected.
func mapToMeal(info mealInfo) (domain.Meal, error) {
	if strings.TrimSpace(info.Name) == "" {
		return domain.Meal{}, errors.New("meal has no name")
	}
	if info.Macros == nil {
		return domain.Meal{}, fmt.Errorf("meal %q has no macros", info.Name)
	}

	slot, err := domain.ParseMealSlot(info.Type)
	if err != nil {
		return domain.Meal{}, fmt.Errorf("meal %q: %w", info.Name, err)
	}

	order := slot.DefaultOrder()
	if info.MealOrder != nil {
		order = *info.MealOrder
	}

	image := strings.TrimSpace(info.Image)
	if image == "" {
		image = DefaultMealImage
	}

	return domain.Meal{
		Name:      strings.TrimSpace(info.Name),
		Slot:      slot,
		SlotLabel: slot.Label(),
		ImageRef:  image,
		Order:     order,
		Macros: domain.MacroBreakdown{
			Calories: float64(info.Macros.Calories),
			Carbs:    float64(info.Macros.Carbs),
			Protein:  float64(info.Macros.Protein),
			Fat:      float64(info.Macros.Fat),
		},
	}, nil
}
