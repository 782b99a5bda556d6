package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/macrohero/backend/internal/domain"
)

// PlanState is the lifecycle of the plan as a whole.
type PlanState int

const (
	PlanUninitialized PlanState = iota
	PlanLoading
	PlanReady
)

func (s PlanState) String() string {
	switch s {
	case PlanLoading:
		return "loading"
	case PlanReady:
		return "ready"
	}
	return "uninitialized"
}

// SlotState is the state of the last fetch for one slot.
type SlotState int

const (
	SlotIdle SlotState = iota
	SlotLoading
	SlotResolved
	SlotNotFound
	SlotFailed
)

func (s SlotState) String() string {
	switch s {
	case SlotLoading:
		return "loading"
	case SlotResolved:
		return "resolved"
	case SlotNotFound:
		return "not_found"
	case SlotFailed:
		return "failed"
	}
	return "idle"
}

// RefreshOutcome is the result of a single slot refresh.
type RefreshOutcome int

const (
	OutcomeResolved RefreshOutcome = iota
	OutcomeNotFound
	OutcomeFailed
	// OutcomeBusy means a refresh for the slot was already outstanding.
	OutcomeBusy
	// OutcomeSkipped means the slot cannot be refreshed.
	OutcomeSkipped
)

func (o RefreshOutcome) String() string {
	switch o {
	case OutcomeResolved:
		return "resolved"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFailed:
		return "failed"
	case OutcomeBusy:
		return "busy"
	}
	return "skipped"
}

// ControllerConfig holds configuration for the plan controller
type ControllerConfig struct {
	RequestTimeout time.Duration
}

// MealPlanController orchestrates gateway calls, owns the plan store and
// drives the view. It is safe for concurrent use; every store mutation and
// view notification happens under mu. Views must not call back into the
// controller.
type MealPlanController struct {
	gateway  domain.MealPlanGateway
	view     domain.PlanView
	requests domain.PlanRequests
	store    *MealPlanStore
	log      logrus.FieldLogger
	timeout  time.Duration

	mu        sync.Mutex
	planState PlanState
	slots     map[domain.MealSlot]SlotState
	inFlight  int
}

// NewMealPlanController creates a controller for one plan session. The
// requests are reused verbatim for the initial fetch and every refresh.
func NewMealPlanController(
	gateway domain.MealPlanGateway,
	view domain.PlanView,
	requests domain.PlanRequests,
	log logrus.FieldLogger,
	config ControllerConfig,
) *MealPlanController {
	timeout := config.RequestTimeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if view == nil {
		view = noopView{}
	}

	slots := make(map[domain.MealSlot]SlotState, len(domain.SwappableSlots))
	for _, slot := range domain.SwappableSlots {
		slots[slot] = SlotIdle
	}

	return &MealPlanController{
		gateway:  gateway,
		view:     view,
		requests: requests,
		store:    NewMealPlanStore(),
		log:      log,
		timeout:  timeout,
		slots:    slots,
	}
}

// LoadPlan fetches the full plan and replaces the store's contents.
// It returns ErrPlanLoading without contacting the gateway when a full
// fetch is already outstanding.
//
// On failure the plan state returns to what it was before the call:
// Uninitialized for a first load, Ready when an earlier plan is still shown.
// Ready therefore means a plan is on display, not that the latest load
// succeeded; the returned error and the view's OnError report that.
// Either state accepts another LoadPlan.
func (c *MealPlanController) LoadPlan(ctx context.Context) error {
	c.mu.Lock()
	if c.planState == PlanLoading {
		c.mu.Unlock()
		return domain.ErrPlanLoading
	}
	previous := c.planState
	c.planState = PlanLoading
	c.beginLoading()
	c.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	meals, err := c.gateway.FetchPlan(fetchCtx, c.requests)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		err = asTransportFailure(err)
		c.log.WithError(err).WithField("elapsed", time.Since(start)).Warn("meal plan fetch failed")
		c.planState = previous
		c.endLoading()
		c.view.OnError(domain.ErrorKindTransportFailure)
		return err
	}

	c.store.SetFull(meals)
	for _, slot := range domain.SwappableSlots {
		if c.slots[slot] == SlotLoading {
			continue
		}
		if _, ok := c.store.Get(slot); ok {
			c.slots[slot] = SlotResolved
		} else {
			c.slots[slot] = SlotNotFound
		}
	}
	c.planState = PlanReady

	c.log.WithFields(logrus.Fields{
		"meals":   c.store.Len(),
		"elapsed": time.Since(start),
	}).Info("meal plan loaded")

	c.endLoading()
	c.view.OnPlanChanged(c.store.OrderedSnapshot())
	return nil
}

// RefreshSlot fetches a replacement meal for slot and swaps it into the plan.
// The existing meal stays in place when no replacement is found or the
// fetch fails. A slot that already has a fetch outstanding is left alone.
func (c *MealPlanController) RefreshSlot(ctx context.Context, slot domain.MealSlot) (RefreshOutcome, error) {
	req, ok := c.requests.For(slot)
	if !ok {
		c.log.WithField("slot", slot).Debug("slot is not refreshable")
		return OutcomeSkipped, nil
	}

	c.mu.Lock()
	if c.slots[slot] == SlotLoading {
		c.mu.Unlock()
		c.log.WithField("slot", slot).Debug("refresh already in flight")
		return OutcomeBusy, nil
	}
	c.slots[slot] = SlotLoading
	c.beginLoading()
	c.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	meal, err := c.gateway.FetchReplacement(fetchCtx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	logger := c.log.WithField("slot", slot)

	switch {
	case err != nil:
		err = asTransportFailure(err)
		logger.WithError(err).Warn("replacement fetch failed")
		c.slots[slot] = SlotFailed
		c.endLoading()
		c.view.OnError(domain.ErrorKindTransportFailure)
		return OutcomeFailed, err

	case meal == nil:
		logger.Info("no replacement matches constraint")
		c.slots[slot] = SlotNotFound
		c.endLoading()
		return OutcomeNotFound, nil
	}

	if err := c.store.Replace(slot, *meal); err != nil {
		// The service answered for a different slot; keep the current meal.
		logger.WithError(err).WithField("returned_slot", meal.Slot).Warn("discarding replacement")
		c.slots[slot] = SlotNotFound
		c.endLoading()
		return OutcomeNotFound, nil
	}

	logger.WithField("meal", meal.Name).Info("slot refreshed")
	c.slots[slot] = SlotResolved
	c.endLoading()
	c.view.OnPlanChanged(c.store.OrderedSnapshot())
	return OutcomeResolved, nil
}

// PlanStatus is the controller's plan, plan state and slot states read at
// one instant.
type PlanStatus struct {
	State   PlanState
	Slots   map[domain.MealSlot]SlotState
	Meals   []domain.Meal
	Loading bool
}

// Status returns a consistent copy of the plan and its states
func (c *MealPlanController) Status() PlanStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	slots := make(map[domain.MealSlot]SlotState, len(c.slots))
	for slot, state := range c.slots {
		slots[slot] = state
	}

	return PlanStatus{
		State:   c.planState,
		Slots:   slots,
		Meals:   c.store.OrderedSnapshot(),
		Loading: c.inFlight > 0,
	}
}

// Snapshot returns the plan sorted by display order
func (c *MealPlanController) Snapshot() []domain.Meal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.OrderedSnapshot()
}

// PlanState returns the current plan lifecycle state
func (c *MealPlanController) PlanState() PlanState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.planState
}

// SlotState returns the state of the last fetch for slot
func (c *MealPlanController) SlotState(slot domain.MealSlot) SlotState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slots[slot]
}

// beginLoading and endLoading keep the loading signal paired across
// overlapping requests. Callers hold mu.
func (c *MealPlanController) beginLoading() {
	c.inFlight++
	if c.inFlight == 1 {
		c.view.OnLoadingChanged(true)
	}
}

func (c *MealPlanController) endLoading() {
	if c.inFlight == 0 {
		return
	}
	c.inFlight--
	if c.inFlight == 0 {
		c.view.OnLoadingChanged(false)
	}
}

func asTransportFailure(err error) error {
	if errors.Is(err, domain.ErrTransportFailure) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrTransportFailure, err)
}
