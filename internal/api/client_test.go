package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apierrors "github.com/helena/scitutor/internal/errors"
	"github.com/helena/scitutor/internal/models"
)

func newTestClient(t *testing.T, endpoint string) *TutorClient {
	t.Helper()
	client, err := NewClient(WithEndpoint(endpoint), WithTimeout(10*time.Second))
	if err != nil {
		t.Fatalf("NewClient() returned error: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func userTurn(text string) Turn {
	return Turn{Role: models.RoleUser, Parts: []Part{{Text: text}}}
}

func TestAskSuccess(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Rayleigh scattering makes the sky blue."}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	reply, err := client.Ask(context.Background(), []Turn{userTurn("Why is the sky blue?")})
	if err != nil {
		t.Fatalf("Ask() returned error: %v", err)
	}
	if reply != "Rayleigh scattering makes the sky blue." {
		t.Errorf("Unexpected reply: %q", reply)
	}

	// Verify the outbound wire shape
	var sent askRequest
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("Request body is not valid JSON: %v", err)
	}
	if len(sent.History) != 1 {
		t.Fatalf("Expected 1 turn, got %d", len(sent.History))
	}
	turn := sent.History[0]
	if turn.Role != models.RoleUser {
		t.Errorf("Expected role %q, got %q", models.RoleUser, turn.Role)
	}
	if len(turn.Parts) != 1 || turn.Parts[0].Text != "Why is the sky blue?" {
		t.Errorf("Unexpected parts: %+v", turn.Parts)
	}
}

func TestAskEmptyReplyField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"something_else":true}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	reply, err := client.Ask(context.Background(), []Turn{userTurn("hello")})
	if err != nil {
		t.Fatalf("Ask() returned error: %v", err)
	}
	// Absent reply field is a success with an empty reply; the caller
	// substitutes the fallback string.
	if reply != "" {
		t.Errorf("Expected empty reply, got %q", reply)
	}
}

func TestAskServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"overloaded"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Ask(context.Background(), []Turn{userTurn("hello")})
	if err == nil {
		t.Fatal("Expected error for HTTP 500")
	}
	if !apierrors.IsTransportError(err) {
		t.Errorf("Expected TransportError, got %T", err)
	}
	if status := apierrors.HTTPStatus(err); status != 500 {
		t.Errorf("Expected status 500, got %d", status)
	}
	if got := err.Error(); !strings.Contains(got, "overloaded") {
		t.Errorf("Expected error detail to embed 'overloaded', got %q", got)
	}
}

func TestAskServerErrorWithoutErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream exploded`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Ask(context.Background(), []Turn{userTurn("hello")})
	if err == nil {
		t.Fatal("Expected error for HTTP 502")
	}
	if got := err.Error(); !strings.Contains(got, models.UnknownBackendError) {
		t.Errorf("Expected default diagnostic, got %q", got)
	}
}

func TestAskErrorFieldOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"model unavailable"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Ask(context.Background(), []Turn{userTurn("hello")})
	if err == nil {
		t.Fatal("Expected error for 200 body with error field")
	}
	if !apierrors.IsMalformedResponse(err) {
		t.Errorf("Expected MalformedResponseError, got %T", err)
	}
	if got := err.Error(); !strings.Contains(got, "model unavailable") {
		t.Errorf("Expected error detail embedded, got %q", got)
	}
}

func TestAskInvalidJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Ask(context.Background(), []Turn{userTurn("hello")})
	if err == nil {
		t.Fatal("Expected error for invalid JSON body")
	}
	if !apierrors.IsMalformedResponse(err) {
		t.Errorf("Expected MalformedResponseError, got %T", err)
	}
}

func TestAskUnreachableServer(t *testing.T) {
	// Reserve a port and close it so nothing is listening
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := newTestClient(t, url)
	_, err := client.Ask(context.Background(), []Turn{userTurn("hello")})
	if err == nil {
		t.Fatal("Expected error for unreachable server")
	}
	if !apierrors.IsTransportError(err) {
		t.Errorf("Expected TransportError, got %T", err)
	}
	if status := apierrors.HTTPStatus(err); status != 0 {
		t.Errorf("Expected status 0 for network failure, got %d", status)
	}
}

func TestAskEmptyHistory(t *testing.T) {
	client := newTestClient(t, "http://localhost:0")
	if _, err := client.Ask(context.Background(), nil); err == nil {
		t.Error("Expected error for empty history")
	}
}

func TestAskAfterClose(t *testing.T) {
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient() returned error: %v", err)
	}
	client.Close()

	if _, err := client.Ask(context.Background(), []Turn{userTurn("hello")}); err == nil {
		t.Error("Expected error when asking a closed client")
	}
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field present", `{"error":"overloaded"}`, "overloaded"},
		{"error field empty", `{"error":""}`, models.UnknownBackendError},
		{"no error field", `{"status":"bad"}`, models.UnknownBackendError},
		{"invalid json", `garbage`, models.UnknownBackendError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorDetail([]byte(tt.body)); got != tt.want {
				t.Errorf("errorDetail() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMockTutorClient(t *testing.T) {
	mock := &MockTutorClient{ReplyVal: "hi"}

	reply, err := mock.Ask(context.Background(), []Turn{userTurn("hello")})
	if err != nil || reply != "hi" {
		t.Errorf("Ask() = (%q, %v), want (hi, nil)", reply, err)
	}
	if !mock.AskCalled || mock.AskCount != 1 {
		t.Error("Expected call recorder to be updated")
	}
	if len(mock.LastHistory) != 1 {
		t.Errorf("Expected recorded history of 1 turn, got %d", len(mock.LastHistory))
	}

	mock.AskErr = errors.New("boom")
	if _, err := mock.Ask(context.Background(), []Turn{userTurn("x")}); err == nil {
		t.Error("Expected configured error")
	}
}
