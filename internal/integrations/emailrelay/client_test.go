package emailrelay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClient_ValidatesConfig(t *testing.T) {
	cases := []struct {
		service, template, key string
	}{
		{"", "template_x", "pk"},
		{"service_x", "", "pk"},
		{"service_x", "template_x", ""},
		{"  ", "template_x", "pk"},
	}
	for _, tc := range cases {
		_, err := NewClient(tc.service, tc.template, tc.key)
		require.Error(t, err, "service=%q template=%q key=%q", tc.service, tc.template, tc.key)
	}
}

func TestSend_HappyPath(t *testing.T) {
	var gotPath string
	var gotBody sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	c, err := NewClient("service_x", "template_x", "pk_x", WithBaseURL(srv.URL))
	require.NoError(t, err)

	err = c.Send(context.Background(), TemplateParams{
		FromName:  "Jane",
		FromEmail: "jane@example.com",
		Message:   "Need a site",
		Subject:   "New Contact from Jane",
	})
	require.NoError(t, err)

	require.Equal(t, "/api/v1.0/email/send", gotPath)
	require.Equal(t, "service_x", gotBody.ServiceID)
	require.Equal(t, "template_x", gotBody.TemplateID)
	require.Equal(t, "pk_x", gotBody.UserID)
	require.Equal(t, "Jane", gotBody.TemplateParams.FromName)
	require.Equal(t, "jane@example.com", gotBody.TemplateParams.FromEmail)
}

func TestSend_UpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("The template ID is invalid"))
	}))
	defer srv.Close()

	c, err := NewClient("service_x", "template_x", "pk_x", WithBaseURL(srv.URL))
	require.NoError(t, err)

	err = c.Send(context.Background(), TemplateParams{FromName: "Jane"})
	require.Error(t, err)

	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadRequest, statusErr.HTTPStatusCode())
	require.Contains(t, statusErr.Body, "template ID")
}

func TestSend_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c, err := NewClient("service_x", "template_x", "pk_x", WithBaseURL(srv.URL))
	require.NoError(t, err)

	err = c.Send(context.Background(), TemplateParams{FromName: "Jane"})
	require.Error(t, err)
}
