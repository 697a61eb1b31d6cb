package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/lbc-release/pkg/infra/slack"
)

func TestNotifier_Notify(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := slack.NewNotifier(server.URL, "release-bot")
	gt.NoError(t, n.Notify(context.Background(), "Release r2 published"))

	gt.Equal(t, received["text"], any("Release r2 published"))
	gt.Equal(t, received["username"], any("release-bot"))
}

func TestNotifier_NotifyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	n := slack.NewNotifier(server.URL, "")
	err := n.Notify(context.Background(), "hello")
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("failed to post slack webhook")
}
