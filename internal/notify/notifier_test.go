package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/model"
)

func TestNotifier_LoanDecision(t *testing.T) {
	t.Parallel()

	received := make(chan model.LoanEvent, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var event model.LoanEvent
		require.NoError(t, json.Unmarshal(body, &event))
		received <- event
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := New(Config{URL: srv.URL, Timeout: time.Second, Recovery: 1}, zap.NewNop())
	n.LoanDecision(context.Background(), model.LoanEvent{
		LoanUID:   "7e7f4f55-7f3b-4a02-9c19-6d6f1f2a8c11",
		BookID:    1,
		MemberID:  2,
		EventType: "approved",
		Status:    model.StatusIssued,
	})

	select {
	case event := <-received:
		require.Equal(t, "approved", event.EventType)
		require.Equal(t, model.StatusIssued, event.Status)
		require.Equal(t, "7e7f4f55-7f3b-4a02-9c19-6d6f1f2a8c11", event.LoanUID)
	case <-time.After(time.Second):
		t.Fatal("webhook never delivered")
	}
}

func TestNotifier_NoURLConfigured(t *testing.T) {
	t.Parallel()

	n := New(Config{}, zap.NewNop())
	require.NotPanics(t, func() {
		n.LoanDecision(context.Background(), model.LoanEvent{EventType: "rejected"})
	})
}
