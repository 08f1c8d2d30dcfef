package handler

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"mobiliza/internal/status/service"
	"mobiliza/internal/status/store"
	"mobiliza/pkg/testutil"
)

func newRouter(t *testing.T) (chi.Router, *service.Service) {
	t.Helper()
	svc := service.NewService(store.NewMemoryStore())
	h := New(svc, slog.Default())
	r := chi.NewRouter()
	h.Register(r)
	return r, svc
}

func TestHandleCreate(t *testing.T) {
	t.Run("creates a status", func(t *testing.T) {
		r, _ := newRouter(t)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/statuses", map[string]string{
			"name":        "ativa",
			"description": "onboarded and in a squad",
		})
		rr := testutil.DoRequest(r, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		testutil.AssertJSONContains(t, rr, "name", "ATIVA")
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		r, _ := newRouter(t)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/statuses", map[string]string{"name": "ATIVA"})
		testutil.AssertStatus(t, testutil.DoRequest(r, req), http.StatusCreated)

		req = testutil.NewJSONRequest(t, http.MethodPost, "/statuses", map[string]string{"name": "ATIVA"})
		testutil.AssertStatusAndError(t, testutil.DoRequest(r, req), http.StatusConflict, "conflict")
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		r, _ := newRouter(t)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/statuses", map[string]string{"name": " "})
		testutil.AssertStatusAndError(t, testutil.DoRequest(r, req), http.StatusBadRequest, "validation")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		r, _ := newRouter(t)
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/statuses", "{not json")
		testutil.AssertStatusAndError(t, testutil.DoRequest(r, req), http.StatusBadRequest, "bad_request")
	})
}

func TestHandleList(t *testing.T) {
	r, svc := newRouter(t)
	require.NoError(t, svc.Seed(t.Context(), "INTERESSADA", "ATIVA"))

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/statuses"))
	testutil.AssertStatusOK(t, rr)

	statuses := testutil.UnmarshalResponse[[]map[string]any](t, rr)
	require.Len(t, *statuses, 2)
}
