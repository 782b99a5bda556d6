package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrohero/backend/internal/domain"
)

// MockSessionCache is a mock implementation of domain.CacheRepository
type MockSessionCache struct {
	data     map[string]*PlanSession
	ttls     map[string]time.Duration
	setError error
}

func NewMockSessionCache() *MockSessionCache {
	return &MockSessionCache{
		data: make(map[string]*PlanSession),
		ttls: make(map[string]time.Duration),
	}
}

func (m *MockSessionCache) Get(ctx context.Context, key string) (*PlanSession, error) {
	if s, ok := m.data[key]; ok {
		return s, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockSessionCache) Set(ctx context.Context, key string, value *PlanSession, ttl time.Duration) error {
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *MockSessionCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockSessionCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func newTestSessionService(cache *MockSessionCache, gateway *MockGateway) *SessionService {
	logger, _ := test.NewNullLogger()
	return NewSessionService(cache, gateway, testPlanRequests(), logger, SessionServiceConfig{
		SessionTTL:     time.Hour,
		RequestTimeout: time.Second,
	})
}

func TestNewSessionService(t *testing.T) {
	svc := NewSessionService(NewMockSessionCache(), NewMockGateway(), testPlanRequests(), nil, SessionServiceConfig{})
	assert.Equal(t, 2*time.Hour, svc.config.SessionTTL)
}

func TestSessionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a fresh session", func(t *testing.T) {
		cache := NewMockSessionCache()
		svc := newTestSessionService(cache, NewMockGateway())

		session, err := svc.Create(ctx)

		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.Same(t, session, cache.data[session.ID])
		assert.Equal(t, time.Hour, cache.ttls[session.ID])
		assert.Equal(t, PlanUninitialized, session.Controller.PlanState())
	})

	t.Run("ids are unique", func(t *testing.T) {
		svc := newTestSessionService(NewMockSessionCache(), NewMockGateway())
		a, _ := svc.Create(ctx)
		b, _ := svc.Create(ctx)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("cache failure", func(t *testing.T) {
		cache := NewMockSessionCache()
		cache.setError = errors.New("cache full")
		svc := newTestSessionService(cache, NewMockGateway())

		session, err := svc.Create(ctx)
		assert.Nil(t, session)
		assert.Error(t, err)
	})

	t.Run("loading hook is attached to the view", func(t *testing.T) {
		var transitions []bool
		svc := NewSessionService(NewMockSessionCache(), NewMockGateway(), testPlanRequests(), nil, SessionServiceConfig{
			LoadingHook: func(isLoading bool) { transitions = append(transitions, isLoading) },
		})

		_, err := svc.Start(ctx)
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false}, transitions)
	})
}

func TestSessionService_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("loads the plan into the view", func(t *testing.T) {
		gateway := NewMockGateway()
		gateway.planMeals = []domain.Meal{meal("Steak", domain.Dinner), meal("Oats", domain.Breakfast)}
		svc := newTestSessionService(NewMockSessionCache(), gateway)

		session, err := svc.Start(ctx)

		require.NoError(t, err)
		assert.Equal(t, PlanReady, session.Controller.PlanState())
		assert.Equal(t, []string{"Oats", "Steak"}, names(session.View.State().Meals))
	})

	t.Run("returns session with the load error", func(t *testing.T) {
		gateway := NewMockGateway()
		gateway.planErr = domain.ErrTransportFailure
		cache := NewMockSessionCache()
		svc := newTestSessionService(cache, gateway)

		session, err := svc.Start(ctx)

		assert.ErrorIs(t, err, domain.ErrTransportFailure)
		require.NotNil(t, session)
		assert.Contains(t, cache.data, session.ID)
		assert.Equal(t, domain.ErrorKindTransportFailure, session.View.State().LastError)
	})
}

func TestSessionService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	cache := NewMockSessionCache()
	svc := newTestSessionService(cache, NewMockGateway())

	session, err := svc.Create(ctx)
	require.NoError(t, err)

	got, err := svc.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, svc.Delete(ctx, session.ID))
	_, err = svc.Get(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, session.ID), domain.ErrSessionNotFound)
}
