package http

import (
	"time"

	"github.com/macrohero/backend/internal/domain"
	"github.com/macrohero/backend/internal/usecase"
)

// PlanResponse is the rendered state of one plan session
type PlanResponse struct {
	ID        string            `json:"id"`
	State     string            `json:"state"`
	Loading   bool              `json:"loading"`
	Version   int               `json:"version"`
	Meals     []MealResponse    `json:"meals"`
	Slots     map[string]string `json:"slots"`
	LastError string            `json:"last_error,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// MealResponse is one meal as shown in the plan list
type MealResponse struct {
	Slot   string                `json:"slot"`
	Name   string                `json:"name"`
	Type   string                `json:"type"`
	Image  string                `json:"image"`
	Order  int                   `json:"order"`
	Macros domain.MacroBreakdown `json:"macros"`
}

// RefreshResponse reports the result of a slot refresh
type RefreshResponse struct {
	Slot    string       `json:"slot"`
	Outcome string       `json:"outcome"`
	Plan    PlanResponse `json:"plan"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error     string `json:"error"`
	SessionID string `json:"session_id,omitempty"`
}

// newPlanResponse renders a session. Meals, plan state, slot states and the
// loading flag come from one controller snapshot so they always agree.
func newPlanResponse(session *usecase.PlanSession) PlanResponse {
	status := session.Controller.Status()
	view := session.View.State()

	meals := make([]MealResponse, 0, len(status.Meals))
	for _, m := range status.Meals {
		meals = append(meals, MealResponse{
			Slot:   m.Slot.String(),
			Name:   m.Name,
			Type:   m.SlotLabel,
			Image:  m.ImageRef,
			Order:  m.Order,
			Macros: m.Macros,
		})
	}

	slots := make(map[string]string, len(status.Slots))
	for slot, state := range status.Slots {
		slots[slot.String()] = state.String()
	}

	return PlanResponse{
		ID:        session.ID,
		State:     status.State.String(),
		Loading:   status.Loading,
		Version:   view.Version,
		Meals:     meals,
		Slots:     slots,
		LastError: string(view.LastError),
		UpdatedAt: view.UpdatedAt,
	}
}
