package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authhandler "mobiliza/internal/auth/handler"
	authjwt "mobiliza/internal/auth/jwt"
	authservice "mobiliza/internal/auth/service"
	authstore "mobiliza/internal/auth/store"
	cataloghandler "mobiliza/internal/catalog/handler"
	catalogservice "mobiliza/internal/catalog/service"
	catalogstore "mobiliza/internal/catalog/store"
	dashboardhandler "mobiliza/internal/dashboard/handler"
	dashboardservice "mobiliza/internal/dashboard/service"
	feedbackhandler "mobiliza/internal/feedback/handler"
	feedbackservice "mobiliza/internal/feedback/service"
	feedbackstore "mobiliza/internal/feedback/store"
	statushandler "mobiliza/internal/status/handler"
	statusservice "mobiliza/internal/status/service"
	statusstore "mobiliza/internal/status/store"
	volunteerhandler "mobiliza/internal/volunteer/handler"
	volunteerservice "mobiliza/internal/volunteer/service"
	volunteerstore "mobiliza/internal/volunteer/store"
	"mobiliza/pkg/testutil"
)

func newRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	log := slog.Default()

	statuses := statusservice.NewService(statusstore.NewMemoryStore())
	require.NoError(t, statuses.Seed(context.Background(), "INTERESSADA", "ATIVA"))
	catalog := catalogservice.NewService(catalogstore.NewMemoryStore())

	volunteers := volunteerstore.NewMemoryStore()
	volunteerSvc := volunteerservice.NewService(volunteers, statuses, catalog, volunteerservice.Config{
		DefaultStatusName: "INTERESSADA",
		InviteStatusName:  "ATIVA",
		EditTokenTTL:      time.Hour,
		DailyEditLimit:    2,
		EditLinkBaseURL:   "https://mobiliza.example.org/editar",
	})

	tokens := authjwt.NewService("test-signing-key", "mobiliza")
	authSvc := authservice.NewService(authstore.NewMemoryStore(), tokens, authservice.Config{
		RegistrationCode: "mobiliza-2025",
		TokenTTL:         time.Hour,
	})
	feedbackSvc := feedbackservice.NewService(feedbackstore.NewMemoryStore(), volunteerSvc, authSvc)
	dashboardSvc := dashboardservice.NewService(volunteers, statuses, catalog, dashboardservice.Config{
		Timezone: "America/Sao_Paulo",
		CacheTTL: time.Minute,
	})

	router := NewRouter(Handlers{
		Auth:      authhandler.New(authSvc, log),
		Volunteer: volunteerhandler.New(volunteerSvc, statuses, feedbackSvc, log),
		Status:    statushandler.New(statuses, log),
		Catalog:   cataloghandler.New(catalog, log),
		Feedback:  feedbackhandler.New(feedbackSvc, log),
		Dashboard: dashboardhandler.New(dashboardSvc, log),
	}, authjwt.NewServiceAdapter(tokens), log)

	// A real operator token for the authenticated routes.
	user, err := authSvc.Register(context.Background(), "Maria", "maria@mobiliza.example.org", "long-password", "mobiliza-2025")
	require.NoError(t, err)
	token, err := tokens.GenerateAccessToken(user.ID, user.Email, time.Hour)
	require.NoError(t, err)

	return router, token
}

func TestRouter(t *testing.T) {
	router, token := newRouter(t)

	t.Run("health and intake are open", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/volunteer",
			map[string]string{"name": "Ana Silva", "email": "ana@example.com"})
		testutil.AssertStatus(t, testutil.DoRequest(router, req), http.StatusCreated)
	})

	t.Run("operator routes require a bearer token", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/volunteers"))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)

		req := testutil.NewRequest(t, http.MethodGet, "/volunteers")
		req.Header.Set("Authorization", "Bearer "+token)
		testutil.AssertStatusOK(t, testutil.DoRequest(router, req))
	})

	t.Run("dashboard sits behind auth", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/dashboard/stats"))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)

		req := testutil.NewRequest(t, http.MethodGet, "/dashboard/stats")
		req.Header.Set("Authorization", "Bearer "+token)
		testutil.AssertStatusOK(t, testutil.DoRequest(router, req))
	})

	t.Run("metrics endpoint is exposed", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
		testutil.AssertStatusOK(t, rr)
	})
}
