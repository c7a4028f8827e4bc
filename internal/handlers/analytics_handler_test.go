package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelink_backend/internal/analytics"
	"tradelink_backend/internal/appErrors"
	"tradelink_backend/internal/models"
	"tradelink_backend/internal/repositories"
	"tradelink_backend/internal/services/dto"
)

type stubAnalyticsService struct {
	activeUsers func(actor *dto.Actor, spec analytics.DateRangeSpec, segment repositories.SegmentFilter) (*dto.ActiveUsersResult, error)
	funnel      func(actor *dto.Actor, spec analytics.DateRangeSpec, segment repositories.SegmentFilter) (*dto.FunnelResult, error)
}

func (s *stubAnalyticsService) GetActiveUsers(_ context.Context, actor *dto.Actor, spec analytics.DateRangeSpec, segment repositories.SegmentFilter) (*dto.ActiveUsersResult, error) {
	return s.activeUsers(actor, spec, segment)
}

func (s *stubAnalyticsService) GetConversionFunnel(_ context.Context, actor *dto.Actor, spec analytics.DateRangeSpec, segment repositories.SegmentFilter) (*dto.FunnelResult, error) {
	return s.funnel(actor, spec, segment)
}

func (s *stubAnalyticsService) GetSubscriptionMetrics(_ context.Context, actor *dto.Actor, _ analytics.DateRangeSpec) (*dto.SubscriptionResult, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	return &dto.SubscriptionResult{}, nil
}

func (s *stubAnalyticsService) GetOperationalLoad(_ context.Context, actor *dto.Actor, _ analytics.DateRangeSpec) (*dto.OperationalLoadResult, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	return &dto.OperationalLoadResult{}, nil
}

func setIdentity(userID string, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
			c.Set("role", role)
		}
		c.Next()
	}
}

func newTestRouter(svc *stubAnalyticsService, userID string, role models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewAnalyticsHandler(svc)

	group := router.Group("/api/v1/analytics", setIdentity(userID, role))
	group.GET("/active-users", handler.GetActiveUsers)
	group.GET("/funnel", handler.GetConversionFunnel)
	group.GET("/subscriptions", handler.GetSubscriptionMetrics)
	group.GET("/operational", handler.GetOperationalLoad)
	return router
}

func TestGetActiveUsersPassesActorAndSegment(t *testing.T) {
	var gotActor *dto.Actor
	var gotSpec analytics.DateRangeSpec
	var gotSegment repositories.SegmentFilter

	svc := &stubAnalyticsService{
		activeUsers: func(actor *dto.Actor, spec analytics.DateRangeSpec, segment repositories.SegmentFilter) (*dto.ActiveUsersResult, error) {
			gotActor, gotSpec, gotSegment = actor, spec, segment
			return &dto.ActiveUsersResult{DAU: 3, WAU: 10, MAU: 25}, nil
		},
	}
	router := newTestRouter(svc, "u-1", models.UserRoleWorker)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/analytics/active-users?preset=last7days&compare=true&role=worker&location=austin", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotActor)
	assert.Equal(t, "u-1", gotActor.ID)
	assert.Equal(t, models.UserRoleWorker, gotActor.Role)
	assert.Equal(t, analytics.PresetLast7Days, gotSpec.Preset)
	assert.True(t, gotSpec.CompareEnabled)
	assert.Equal(t, "worker", gotSegment.Role)
	assert.Equal(t, "austin", gotSegment.Location)

	var body dto.ActiveUsersResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 25, body.MAU)
}

func TestGetActiveUsersDefaultsPreset(t *testing.T) {
	var gotSpec analytics.DateRangeSpec
	svc := &stubAnalyticsService{
		activeUsers: func(_ *dto.Actor, spec analytics.DateRangeSpec, _ repositories.SegmentFilter) (*dto.ActiveUsersResult, error) {
			gotSpec = spec
			return &dto.ActiveUsersResult{}, nil
		},
	}
	router := newTestRouter(svc, "u-1", models.UserRoleWorker)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/active-users", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, analytics.PresetLast30Days, gotSpec.Preset)
}

func TestCustomRangeRequiresValidTimestamps(t *testing.T) {
	svc := &stubAnalyticsService{
		activeUsers: func(_ *dto.Actor, _ analytics.DateRangeSpec, _ repositories.SegmentFilter) (*dto.ActiveUsersResult, error) {
			t.Fatal("service should not be called on parse failure")
			return nil, nil
		},
	}
	router := newTestRouter(svc, "u-1", models.UserRoleWorker)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/analytics/active-users?preset=custom&start_date=not-a-date&end_date=2025-06-15T00:00:00Z", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomRangeParsed(t *testing.T) {
	var gotSpec analytics.DateRangeSpec
	svc := &stubAnalyticsService{
		activeUsers: func(_ *dto.Actor, spec analytics.DateRangeSpec, _ repositories.SegmentFilter) (*dto.ActiveUsersResult, error) {
			gotSpec = spec
			return &dto.ActiveUsersResult{}, nil
		},
	}
	router := newTestRouter(svc, "u-1", models.UserRoleWorker)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/analytics/active-users?preset=custom&start_date=2025-05-01T00:00:00Z&end_date=2025-05-31T23:59:59Z", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, analytics.PresetCustom, gotSpec.Preset)
	assert.Equal(t, 2025, gotSpec.StartDate.Year())
	assert.Equal(t, 31, gotSpec.EndDate.Day())
}

func TestAdminReportUnauthenticated(t *testing.T) {
	svc := &stubAnalyticsService{}
	router := newTestRouter(svc, "", "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/subscriptions", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "User not authenticated", body["error"]["message"])
}

func TestFunnelForbiddenPropagates(t *testing.T) {
	svc := &stubAnalyticsService{
		funnel: func(_ *dto.Actor, _ analytics.DateRangeSpec, _ repositories.SegmentFilter) (*dto.FunnelResult, error) {
			return nil, appErrors.ErrForbidden
		},
	}
	router := newTestRouter(svc, "u-1", models.UserRoleEmployer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/funnel", nil))

	require.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Admin access required", body["error"]["message"])
}
