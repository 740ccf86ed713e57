package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/metakgp/maintos/internal/domain"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec, err := New("test-secret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, username := range []string{"alice", "bob-2", "x"} {
		session, err := codec.Issue(username)
		if err != nil {
			t.Fatalf("Issue(%q): %v", username, err)
		}
		if session.Username != username {
			t.Fatalf("session username = %q, want %q", session.Username, username)
		}
		got, err := codec.Verify(session.Token)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if got != username {
			t.Fatalf("Verify returned %q, want %q", got, username)
		}
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	codec, err := New("test-secret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	session, err := codec.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	// Flip a byte in the middle of each segment. Interior characters carry
	// fully used bits, so the decoded header, claims or signature changes.
	parts := strings.Split(session.Token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments", len(parts))
	}
	for i := range parts {
		mutated := make([]string, 3)
		copy(mutated, parts)
		segment := []byte(parts[i])
		mid := len(segment) / 2
		if segment[mid] == 'A' {
			segment[mid] = 'B'
		} else {
			segment[mid] = 'A'
		}
		mutated[i] = string(segment)
		if _, err := codec.Verify(strings.Join(mutated, ".")); !errors.Is(err, domain.ErrInvalidSession) {
			t.Fatalf("Verify accepted token with segment %d tampered", i)
		}
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	past := time.Now().Add(-30 * 24 * time.Hour)
	backdated, err := New("test-secret", WithClock(func() time.Time { return past }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	session, err := backdated.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	codec, err := New("test-secret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := codec.Verify(session.Token); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("Verify of expired token: got %v, want ErrInvalidSession", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, _ := New("secret-a")
	verifier, _ := New("secret-b")
	session, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(session.Token); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("Verify with wrong secret: got %v, want ErrInvalidSession", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	codec, _ := New("test-secret")
	for _, token := range []string{"", "not-a-jwt", "a.b.c", strings.Repeat("x", 512)} {
		if _, err := codec.Verify(token); !errors.Is(err, domain.ErrInvalidSession) {
			t.Fatalf("Verify(%q): got %v, want ErrInvalidSession", token, err)
		}
	}
}

func TestVerifyRejectsTokenWithoutExpiry(t *testing.T) {
	codec, _ := New("test-secret")
	// Valid signature and username, but no expiration claim at all. A
	// credential that never expires is not a valid credential.
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{Username: "alice"})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := codec.Verify(signed); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("Verify of token without expiry: got %v, want ErrInvalidSession", err)
	}
}

func TestVerifyRejectsMissingUsernameClaim(t *testing.T) {
	codec, _ := New("test-secret")
	// Valid signature, valid expiry, but no username claim.
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := codec.Verify(signed); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("Verify of token without username: got %v, want ErrInvalidSession", err)
	}
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrBadSecret) {
		t.Fatalf("New(\"\"): got %v, want ErrBadSecret", err)
	}
}
