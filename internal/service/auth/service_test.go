package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/metakgp/maintos/internal/domain"
	"github.com/metakgp/maintos/internal/github"
	"github.com/metakgp/maintos/internal/service/access"
	"github.com/metakgp/maintos/internal/session"
	"github.com/metakgp/maintos/pkg/config"
)

// fakeGithub drives the whole login flow through a real github.Client
// against an httptest server.
func fakeGithub(t *testing.T, member bool) *github.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("code") != "good-code" {
			http.Error(w, "bad_verification_code", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"gho_test"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"login":"alice"}`))
	})
	mux.HandleFunc("/orgs/metakgp/members/alice", func(w http.ResponseWriter, r *http.Request) {
		if member {
			w.WriteHeader(http.StatusNoContent)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return github.New(log, github.WithBaseURLs(srv.URL, srv.URL))
}

func newFlow(t *testing.T, gh *github.Client) Service {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		GHClientID:      "id",
		GHClientSecret:  "secret",
		GHOrgAdminToken: "admin-token",
		GHOrgName:       "metakgp",
	}
	codec, err := session.New("test-secret")
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return New(gh, access.New(gh, log, cfg), codec, log, cfg)
}

func TestAuthenticateIssuesSessionForMember(t *testing.T) {
	gh := fakeGithub(t, true)
	svc := newFlow(t, gh)

	got, err := svc.Authenticate(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got == nil {
		t.Fatal("Authenticate returned nil session for an org member")
	}
	if got.Username != "alice" {
		t.Fatalf("username = %q, want alice", got.Username)
	}

	codec, _ := session.New("test-secret")
	username, err := codec.Verify(got.Token)
	if err != nil || username != "alice" {
		t.Fatalf("issued token does not verify to alice: %q, %v", username, err)
	}
}

func TestAuthenticateRejectsNonMemberCleanly(t *testing.T) {
	gh := fakeGithub(t, false)
	svc := newFlow(t, gh)

	got, err := svc.Authenticate(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got != nil {
		t.Fatalf("Authenticate returned a session for a non-member: %+v", got)
	}
}

func TestAuthenticateSurfacesExchangeFailure(t *testing.T) {
	gh := fakeGithub(t, true)
	svc := newFlow(t, gh)

	_, err := svc.Authenticate(context.Background(), "bad-code")
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
}
