package handler

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"mobiliza/internal/catalog/service"
	"mobiliza/internal/catalog/store"
	"mobiliza/pkg/testutil"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	h := New(service.NewService(store.NewMemoryStore()), slog.Default())
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestHandleCreateSquad(t *testing.T) {
	t.Run("with a project", func(t *testing.T) {
		r := newRouter(t)
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/projects",
			map[string]string{"name": "SOS Acolhimento"}))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		project := testutil.UnmarshalResponse[map[string]string](t, rr)

		rr = testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/squads",
			map[string]string{"name": "Squad Backend", "project_id": (*project)["id"]}))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		testutil.AssertJSONContains(t, rr, "project_id", (*project)["id"])
	})

	t.Run("unknown project is rejected", func(t *testing.T) {
		r := newRouter(t)
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/squads",
			map[string]string{"name": "Squad Backend", "project_id": uuid.NewString()}))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation")
	})

	t.Run("malformed project id is rejected", func(t *testing.T) {
		r := newRouter(t)
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/squads",
			map[string]string{"name": "Squad Backend", "project_id": "nope"}))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	})
}

func TestHandleVerticals(t *testing.T) {
	r := newRouter(t)

	for _, name := range []string{"Educação", "Saúde"} {
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/verticals",
			map[string]string{"name": name}))
		testutil.AssertStatus(t, rr, http.StatusCreated)
	}

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/verticals"))
	testutil.AssertStatusOK(t, rr)
	verticals := testutil.UnmarshalResponse[[]map[string]any](t, rr)
	require.Len(t, *verticals, 2)
}

func TestHandleVolunteerTypes(t *testing.T) {
	r := newRouter(t)

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/volunteer-types",
		map[string]string{"name": "Desenvolvedora"}))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	rr = testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/volunteer-types",
		map[string]string{"name": "Desenvolvedora"}))
	testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
}
