package brevo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobiliza/internal/platform/config"
	"mobiliza/pkg/platform/sentinel"
)

func TestSend(t *testing.T) {
	t.Run("posts the templated payload", func(t *testing.T) {
		var got sendRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v3/smtp/email", r.URL.Path)
			assert.Equal(t, "key-123", r.Header.Get("api-key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		client := New(config.Brevo{
			BaseURL:     srv.URL,
			APIKey:      "key-123",
			SenderEmail: "contato@mobiliza.example.org",
			SenderName:  "Mobiliza",
		})

		err := client.Send(context.Background(), "ana@example.com", "Ana", 42,
			map[string]string{"edit_url": "https://mobiliza.example.org/editar/tok"})
		require.NoError(t, err)

		assert.EqualValues(t, 42, got.TemplateID)
		require.Len(t, got.To, 1)
		assert.Equal(t, "ana@example.com", got.To[0].Email)
		assert.Equal(t, "https://mobiliza.example.org/editar/tok", got.Params["edit_url"])
	})

	t.Run("non-2xx maps to unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"code":"invalid_parameter"}`, http.StatusBadRequest)
		}))
		defer srv.Close()

		client := New(config.Brevo{BaseURL: srv.URL})
		err := client.Send(context.Background(), "ana@example.com", "Ana", 42, nil)
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})
}
