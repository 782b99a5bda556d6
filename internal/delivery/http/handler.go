package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/macrohero/backend/internal/domain"
	"github.com/macrohero/backend/internal/metrics"
	"github.com/macrohero/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	sessions *usecase.SessionService
	log      logrus.FieldLogger
}

// NewHandler creates a new HTTP handler
func NewHandler(sessions *usecase.SessionService, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{sessions: sessions, log: log}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "macrohero-backend",
		"version": "1.0.0",
	})
}

// CreatePlan opens a session and loads its initial plan. A failed load
// still returns the session id so the client can retry it.
func (h *Handler) CreatePlan(c *gin.Context) {
	session, err := h.sessions.Start(c.Request.Context())
	if session == nil {
		h.log.WithError(err).Error("failed to create plan session")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create plan session"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:     "failed to load meal plan",
			SessionID: session.ID,
		})
		return
	}

	c.JSON(http.StatusCreated, newPlanResponse(session))
}

// GetPlan renders the current plan of a session
func (h *Handler) GetPlan(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newPlanResponse(session))
}

// LoadPlan retries the full plan fetch for an existing session
func (h *Handler) LoadPlan(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	err := session.Controller.LoadPlan(c.Request.Context())
	switch {
	case errors.Is(err, domain.ErrPlanLoading):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "plan is already loading", SessionID: session.ID})
	case err != nil:
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "failed to load meal plan", SessionID: session.ID})
	default:
		c.JSON(http.StatusOK, newPlanResponse(session))
	}
}

// RefreshMeal swaps the meal in one slot for a new recommendation
func (h *Handler) RefreshMeal(c *gin.Context) {
	slot, err := domain.ParseMealSlot(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, ok := h.lookup(c)
	if !ok {
		return
	}

	outcome, err := session.Controller.RefreshSlot(c.Request.Context(), slot)
	metrics.RecordRefresh(slot.String(), outcome.String())

	switch outcome {
	case usecase.OutcomeBusy:
		c.JSON(http.StatusConflict, ErrorResponse{Error: "refresh already in progress", SessionID: session.ID})
	case usecase.OutcomeFailed:
		h.log.WithError(err).WithFields(logrus.Fields{
			"session": session.ID,
			"slot":    slot.String(),
		}).Warn("refresh failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "failed to fetch replacement meal", SessionID: session.ID})
	default:
		c.JSON(http.StatusOK, RefreshResponse{
			Slot:    slot.String(),
			Outcome: outcome.String(),
			Plan:    newPlanResponse(session),
		})
	}
}

// DeletePlan closes a session
func (h *Handler) DeletePlan(c *gin.Context) {
	err := h.sessions.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "plan not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("failed to delete plan session")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to delete plan"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) lookup(c *gin.Context) (*usecase.PlanSession, bool) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "plan not found"})
		return nil, false
	}
	if err != nil {
		h.log.WithError(err).Error("failed to look up plan session")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to look up plan"})
		return nil, false
	}
	return session, true
}
