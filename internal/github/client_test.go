package github

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/metakgp/maintos/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(discardLogger(), WithBaseURLs(srv.URL, srv.URL))
}

func TestExchangeCode(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login/oauth/access_token" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept header = %q", got)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("User-Agent header is empty")
		}
		query := r.URL.Query()
		if query.Get("client_id") != "id" || query.Get("client_secret") != "secret" || query.Get("code") != "code-1" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"gho_abc123"}`))
	}))

	token, err := client.ExchangeCode(context.Background(), "id", "secret", "code-1")
	if err != nil {
		t.Fatalf("ExchangeCode: %v", err)
	}
	if token != "gho_abc123" {
		t.Fatalf("token = %q", token)
	}
}

func TestExchangeCodeUpstreamFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad verification code", http.StatusBadRequest)
	}))

	_, err := client.ExchangeCode(context.Background(), "id", "secret", "bad")
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	if upstream.Status != http.StatusBadRequest {
		t.Fatalf("status = %d", upstream.Status)
	}
}

func TestUsername(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer gho_abc123" {
			t.Errorf("Authorization header = %q", got)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("User-Agent header is empty")
		}
		_, _ = w.Write([]byte(`{"login":"alice"}`))
	}))

	login, err := client.Username(context.Background(), "gho_abc123")
	if err != nil {
		t.Fatalf("Username: %v", err)
	}
	if login != "alice" {
		t.Fatalf("login = %q", login)
	}
}

func TestIsOrgMember(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		wantMember bool
		wantErr    bool
	}{
		{"member", http.StatusNoContent, true, false},
		{"not a member", http.StatusNotFound, false, false},
		{"requester not a member", http.StatusFound, false, true},
		{"server error", http.StatusInternalServerError, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/orgs/metakgp/members/alice" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				w.WriteHeader(tc.status)
			}))
			member, err := client.IsOrgMember(context.Background(), "admin-token", "metakgp", "alice")
			if tc.wantErr {
				var upstream *domain.UpstreamError
				if !errors.As(err, &upstream) {
					t.Fatalf("error = %v, want UpstreamError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("IsOrgMember: %v", err)
			}
			if member != tc.wantMember {
				t.Fatalf("member = %v, want %v", member, tc.wantMember)
			}
		})
	}
}

func TestCollaboratorRole(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/repos/metakgp/site/collaborators/alice/permission" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			_, _ = w.Write([]byte(`{"role_name":"maintain"}`))
		}))
		role, found, err := client.CollaboratorRole(context.Background(), "admin-token", "metakgp", "site", "alice")
		if err != nil {
			t.Fatalf("CollaboratorRole: %v", err)
		}
		if !found || role != domain.RoleMaintain {
			t.Fatalf("role = %q found = %v", role, found)
		}
	})

	t.Run("absent", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		_, found, err := client.CollaboratorRole(context.Background(), "admin-token", "metakgp", "site", "mallory")
		if err != nil {
			t.Fatalf("CollaboratorRole: %v", err)
		}
		if found {
			t.Fatal("found = true for a 404 response")
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		_, _, err := client.CollaboratorRole(context.Background(), "admin-token", "metakgp", "site", "alice")
		var upstream *domain.UpstreamError
		if !errors.As(err, &upstream) {
			t.Fatalf("error = %v, want UpstreamError", err)
		}
	})
}
