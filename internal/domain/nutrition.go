package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is a numeric bound on one nutrient. A range without a maximum is
// open-ended ("100+").
type Range struct {
	Min    float64
	Max    float64
	HasMax bool
	set    bool
}

// AtLeast returns an open-ended range starting at min.
func AtLeast(min float64) Range {
	return Range{Min: min, set: true}
}

// Between returns a bounded range.
func Between(min, max float64) Range {
	return Range{Min: min, Max: max, HasMax: true, set: true}
}

// ParseRange parses the wire encoding of a range: "100+", "100-200" or "150".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("%w: empty range", ErrInvalidRequest)
	}

	if strings.HasSuffix(s, "+") {
		min, err := parseBound(strings.TrimSuffix(s, "+"))
		if err != nil {
			return Range{}, err
		}
		return AtLeast(min), nil
	}

	if idx := strings.Index(s, "-"); idx > 0 {
		min, err := parseBound(s[:idx])
		if err != nil {
			return Range{}, err
		}
		max, err := parseBound(s[idx+1:])
		if err != nil {
			return Range{}, err
		}
		if max < min {
			return Range{}, fmt.Errorf("%w: range %q has max below min", ErrInvalidRequest, s)
		}
		return Between(min, max), nil
	}

	v, err := parseBound(s)
	if err != nil {
		return Range{}, err
	}
	return Between(v, v), nil
}

func parseBound(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad range bound %q", ErrInvalidRequest, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative range bound %q", ErrInvalidRequest, s)
	}
	return v, nil
}

// String returns the wire encoding of the range.
func (r Range) String() string {
	switch {
	case !r.HasMax:
		return formatBound(r.Min) + "+"
	case r.Min == r.Max:
		return formatBound(r.Min)
	default:
		return formatBound(r.Min) + "-" + formatBound(r.Max)
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Contains reports whether v satisfies the range.
func (r Range) Contains(v float64) bool {
	if v < r.Min {
		return false
	}
	return !r.HasMax || v <= r.Max
}

// IsZero reports whether the range was never set.
func (r Range) IsZero() bool {
	return !r.set
}

// MacroConstraint holds the per-nutrient bounds for one meal request.
type MacroConstraint struct {
	Calories Range
	Carbs    Range
	Protein  Range
	Fat      Range
}

// ParseMacroConstraint builds a constraint from the four wire-encoded ranges.
func ParseMacroConstraint(calories, carbs, protein, fat string) (MacroConstraint, error) {
	var (
		c   MacroConstraint
		err error
	)
	if c.Calories, err = ParseRange(calories); err != nil {
		return MacroConstraint{}, fmt.Errorf("calories: %w", err)
	}
	if c.Carbs, err = ParseRange(carbs); err != nil {
		return MacroConstraint{}, fmt.Errorf("carbs: %w", err)
	}
	if c.Protein, err = ParseRange(protein); err != nil {
		return MacroConstraint{}, fmt.Errorf("protein: %w", err)
	}
	if c.Fat, err = ParseRange(fat); err != nil {
		return MacroConstraint{}, fmt.Errorf("fat: %w", err)
	}
	return c, nil
}

// Validate checks that all four nutrients are bounded.
func (c MacroConstraint) Validate() error {
	fields := []struct {
		name string
		r    Range
	}{
		{"calories", c.Calories},
		{"carbs", c.Carbs},
		{"protein", c.Protein},
		{"fat", c.Fat},
	}
	for _, f := range fields {
		if f.r.IsZero() {
			return fmt.Errorf("%w: %s constraint missing", ErrInvalidRequest, f.name)
		}
	}
	return nil
}

// Satisfies reports whether a concrete breakdown falls inside every bound.
func (c MacroConstraint) Satisfies(m MacroBreakdown) bool {
	return c.Calories.Contains(m.Calories) &&
		c.Carbs.Contains(m.Carbs) &&
		c.Protein.Contains(m.Protein) &&
		c.Fat.Contains(m.Fat)
}

// MacroBreakdown contains the resolved macronutrients of one meal
type MacroBreakdown struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`   // grams
	Protein  float64 `json:"protein"` // grams
	Fat      float64 `json:"fat"`     // grams
}

// Macro names one of the four tracked macronutrients.
type Macro string

const (
	MacroCalories Macro = "calories"
	MacroCarbs    Macro = "carbs"
	MacroProtein  Macro = "protein"
	MacroFat      Macro = "fat"
)

// ParseMacro parses a macro name, case-insensitively.
func ParseMacro(s string) (Macro, error) {
	switch m := Macro(strings.ToLower(strings.TrimSpace(s))); m {
	case MacroCalories, MacroCarbs, MacroProtein, MacroFat:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown macro %q", ErrInvalidRequest, s)
}

// MacroPriority orders the two macros the recommendation service should favour.
type MacroPriority struct {
	Primary   Macro
	Secondary Macro
}

// Validate rejects unknown or duplicated macros.
func (p MacroPriority) Validate() error {
	if _, err := ParseMacro(string(p.Primary)); err != nil {
		return err
	}
	if _, err := ParseMacro(string(p.Secondary)); err != nil {
		return err
	}
	if p.Primary == p.Secondary {
		return fmt.Errorf("%w: priority macros must differ", ErrInvalidRequest)
	}
	return nil
}
