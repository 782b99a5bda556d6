package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/macrohero/backend/internal/domain"
)

// PlanSession is one client's in-memory plan: a controller and the view it drives.
type PlanSession struct {
	ID         string
	CreatedAt  time.Time
	Controller *MealPlanController
	View       *PlanViewModel
}

// SessionServiceConfig holds configuration for the session service
type SessionServiceConfig struct {
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	// LoadingHook is attached to every new session's view model.
	LoadingHook func(isLoading bool)
}

// SessionService creates, looks up and tears down plan sessions
type SessionService struct {
	cache    domain.CacheRepository[*PlanSession]
	gateway  domain.MealPlanGateway
	requests domain.PlanRequests
	log      logrus.FieldLogger
	config   SessionServiceConfig
}

// NewSessionService creates a new session service with dependencies
func NewSessionService(
	cache domain.CacheRepository[*PlanSession],
	gateway domain.MealPlanGateway,
	requests domain.PlanRequests,
	log logrus.FieldLogger,
	config SessionServiceConfig,
) *SessionService {
	if config.SessionTTL == 0 {
		config.SessionTTL = 2 * time.Hour
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &SessionService{
		cache:    cache,
		gateway:  gateway,
		requests: requests,
		log:      log,
		config:   config,
	}
}

// Create registers a new session with an empty plan.
func (s *SessionService) Create(ctx context.Context) (*PlanSession, error) {
	id := uuid.NewString()
	view := NewPlanViewModel()
	view.OnLoading = s.config.LoadingHook

	session := &PlanSession{
		ID:        id,
		CreatedAt: time.Now(),
		View:      view,
		Controller: NewMealPlanController(
			s.gateway,
			view,
			s.requests,
			s.log.WithField("session", id),
			ControllerConfig{RequestTimeout: s.config.RequestTimeout},
		),
	}

	if err := s.cache.Set(ctx, id, session, s.config.SessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.log.WithField("session", id).Info("plan session created")
	return session, nil
}

// Start creates a session and runs its initial plan fetch. The session is
// returned even when the fetch fails so the client can retry the load.
func (s *SessionService) Start(ctx context.Context) (*PlanSession, error) {
	session, err := s.Create(ctx)
	if err != nil {
		return nil, err
	}
	return session, session.Controller.LoadPlan(ctx)
}

// Get returns the session for id and extends its lifetime.
func (s *SessionService) Get(ctx context.Context, id string) (*PlanSession, error) {
	session, err := s.cache.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, id, session, s.config.SessionTTL); err != nil {
		s.log.WithError(err).WithField("session", id).Warn("failed to extend session")
	}

	return session, nil
}

// Delete tears a session down
func (s *SessionService) Delete(ctx context.Context, id string) error {
	exists, err := s.cache.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrSessionNotFound
	}

	s.log.WithField("session", id).Info("plan session closed")
	return s.cache.Delete(ctx, id)
}
