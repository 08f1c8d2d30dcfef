// Package lifecycle exercises the full volunteer journey through the real
// router: operator onboarding, public intake, the status transition with its
// invite side effect, the token-gated edit flow, feedback, and the dashboard.
package lifecycle

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

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
	httpapi "mobiliza/internal/http"
	"mobiliza/internal/notify/mocks"
	statushandler "mobiliza/internal/status/handler"
	statusservice "mobiliza/internal/status/service"
	statusstore "mobiliza/internal/status/store"
	volunteerhandler "mobiliza/internal/volunteer/handler"
	volunteerservice "mobiliza/internal/volunteer/service"
	volunteerstore "mobiliza/internal/volunteer/store"
	"mobiliza/pkg/testutil"
)

const (
	registrationCode = "mobiliza-2025"
	inviteTemplate   = int64(20)
	editTemplate     = int64(10)
)

type app struct {
	router   http.Handler
	notifier *mocks.MockNotifier
}

func newApp(t *testing.T) *app {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	statuses := statusservice.NewService(statusstore.NewMemoryStore())
	require.NoError(t, statuses.Seed(context.Background(), "INTERESSADA", "ATIVA"))
	catalog := catalogservice.NewService(catalogstore.NewMemoryStore())
	notifier := mocks.NewMockNotifier(ctrl)

	volunteers := volunteerstore.NewMemoryStore()
	volunteerSvc := volunteerservice.NewService(volunteers, statuses, catalog, volunteerservice.Config{
		DefaultStatusName:  "INTERESSADA",
		InviteStatusName:   "ATIVA",
		EditTokenTTL:       time.Hour,
		DailyEditLimit:     2,
		EditLinkBaseURL:    "https://mobiliza.example.org/editar",
		EditLinkTemplateID: editTemplate,
		InviteTemplateID:   inviteTemplate,
	}, volunteerservice.WithLogger(log), volunteerservice.WithNotifier(notifier))

	tokens := authjwt.NewService("test-signing-key", "mobiliza")
	authSvc := authservice.NewService(authstore.NewMemoryStore(), tokens, authservice.Config{
		RegistrationCode: registrationCode,
		TokenTTL:         time.Hour,
	})
	feedbackSvc := feedbackservice.NewService(feedbackstore.NewMemoryStore(), volunteerSvc, authSvc)
	dashboardSvc := dashboardservice.NewService(volunteers, statuses, catalog, dashboardservice.Config{
		Timezone: "America/Sao_Paulo",
		CacheTTL: time.Minute,
	})

	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:      authhandler.New(authSvc, log),
		Volunteer: volunteerhandler.New(volunteerSvc, statuses, feedbackSvc, log),
		Status:    statushandler.New(statuses, log),
		Catalog:   cataloghandler.New(catalog, log),
		Feedback:  feedbackhandler.New(feedbackSvc, log),
		Dashboard: dashboardhandler.New(dashboardSvc, log),
	}, authjwt.NewServiceAdapter(tokens), log)

	return &app{router: router, notifier: notifier}
}

func (a *app) operatorToken(t *testing.T) string {
	t.Helper()

	req := testutil.NewJSONRequest(t, http.MethodPost, "/users", map[string]string{
		"name":              "Maria",
		"email":             "maria@mobiliza.example.org",
		"password":          "long-password",
		"registration_code": registrationCode,
	})
	testutil.AssertStatus(t, testutil.DoRequest(a.router, req), http.StatusCreated)

	req = testutil.NewJSONRequest(t, http.MethodPost, "/auth/token", map[string]string{
		"email":    "maria@mobiliza.example.org",
		"password": "long-password",
	})
	rr := testutil.DoRequest(a.router, req)
	testutil.AssertStatusOK(t, rr)
	return testutil.UnmarshalResponse[struct {
		AccessToken string `json:"access_token"`
	}](t, rr).AccessToken
}

func (a *app) authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestVolunteerJourney(t *testing.T) {
	a := newApp(t)
	token := a.operatorToken(t)

	// The invite fires exactly once for the whole journey; the edit link may
	// be requested along the way.
	a.notifier.EXPECT().
		Send(gomock.Any(), "ana@example.com", gomock.Any(), inviteTemplate, gomock.Any()).
		Return(nil).
		Times(1)
	var editURL string
	a.notifier.EXPECT().
		Send(gomock.Any(), "ana@example.com", gomock.Any(), editTemplate, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, _ int64, params map[string]string) error {
			editURL = params["edit_url"]
			return nil
		})

	// Public intake.
	req := testutil.NewJSONRequest(t, http.MethodPost, "/volunteer", map[string]string{
		"name":  "Ana Silva",
		"email": "ana@example.com",
		"phone": "+55 11 91234-5678",
	})
	rr := testutil.DoRequest(a.router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}](t, rr)
	assert.Equal(t, "INTERESSADA", created.Status)

	// Operator activates the volunteer; the invite goes out.
	req = a.authed(testutil.NewJSONRequest(t, http.MethodPatch, "/volunteers/"+created.ID+"/status",
		map[string]string{"status": "ATIVA"}), token)
	testutil.AssertStatusOK(t, testutil.DoRequest(a.router, req))

	// A second pass through the same status changes nothing.
	req = a.authed(testutil.NewJSONRequest(t, http.MethodPatch, "/volunteers/"+created.ID+"/status",
		map[string]string{"status": "ATIVA"}), token)
	testutil.AssertStatusOK(t, testutil.DoRequest(a.router, req))

	// The volunteer edits their own profile through the emailed link.
	req = testutil.NewJSONRequest(t, http.MethodPost, "/volunteers/request-edit-link",
		map[string]string{"email": "ana@example.com"})
	testutil.AssertStatusOK(t, testutil.DoRequest(a.router, req))
	require.NotEmpty(t, editURL)
	editToken := editURL[strings.LastIndexByte(editURL, '/')+1:]

	req = testutil.NewJSONRequest(t, http.MethodPatch, "/volunteers/edit/"+editToken,
		map[string]string{"name": "Ana Souza"})
	testutil.AssertStatusOK(t, testutil.DoRequest(a.router, req))

	// Operator leaves feedback.
	req = a.authed(testutil.NewJSONRequest(t, http.MethodPost, "/volunteers/"+created.ID+"/feedback",
		map[string]string{"content": "Entrevista excelente"}), token)
	testutil.AssertStatus(t, testutil.DoRequest(a.router, req), http.StatusCreated)

	// The public profile shows the new name, masked email, and the feedback.
	// The operator has no volunteer profile, so the author is anonymized.
	rr = testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/volunteers/"+created.ID+"/public"))
	testutil.AssertStatusOK(t, rr)
	profile := testutil.UnmarshalResponse[struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Feedbacks []struct {
			Content    string `json:"content"`
			AuthorName string `json:"author_name"`
		} `json:"feedbacks"`
	}](t, rr)
	assert.Equal(t, "Ana Souza", profile.Name)
	assert.Equal(t, "***@example.com", profile.Email)
	require.Len(t, profile.Feedbacks, 1)
	assert.Equal(t, "Entrevista excelente", profile.Feedbacks[0].Content)
	assert.Equal(t, "***", profile.Feedbacks[0].AuthorName)

	// The operator detail view carries the full ledger: intake + activation.
	req = a.authed(testutil.NewRequest(t, http.MethodGet, "/volunteers/"+created.ID), token)
	rr = testutil.DoRequest(a.router, req)
	testutil.AssertStatusOK(t, rr)
	detail := testutil.UnmarshalResponse[struct {
		History []struct {
			Status string `json:"status"`
		} `json:"history"`
	}](t, rr)
	require.Len(t, detail.History, 2)
	assert.Equal(t, "INTERESSADA", detail.History[0].Status)
	assert.Equal(t, "ATIVA", detail.History[1].Status)

	// The dashboard reflects the single active volunteer.
	req = a.authed(testutil.NewRequest(t, http.MethodGet, "/dashboard/stats"), token)
	rr = testutil.DoRequest(a.router, req)
	testutil.AssertStatusOK(t, rr)
	stats := testutil.UnmarshalResponse[struct {
		Total    int            `json:"total"`
		ByStatus map[string]int `json:"by_status"`
	}](t, rr)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, map[string]int{"ATIVA": 1}, stats.ByStatus)
}
