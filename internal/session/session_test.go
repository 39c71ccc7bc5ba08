package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"netlab/pkg/sdk"
)

func writeToken(t *testing.T, dir, token string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, tokenFileName), []byte(token), 0600); err != nil {
		t.Fatal(err)
	}
}

func tokenFileExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, tokenFileName))
	return err == nil
}

func TestInitWithoutTokenFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(sdk.NewClient("http://127.0.0.1:0"), dir)

	store.Init()

	if store.IsAuthenticated() {
		t.Error("expected unauthenticated session")
	}
	if store.IsLoading() {
		t.Error("loading flag must be cleared after Init")
	}
}

func TestInitWithValidToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer stored-token" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(sdk.User{ID: 1, Username: "alice", IsAdmin: true})
	}))
	defer ts.Close()

	dir := t.TempDir()
	writeToken(t, dir, "stored-token")
	store := NewStore(sdk.NewClient(ts.URL), dir)

	store.Init()

	if !store.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}
	if !store.IsAdmin() {
		t.Error("expected admin user")
	}
	if store.User().Username != "alice" {
		t.Errorf("unexpected user %+v", store.User())
	}
	if store.Token() != "stored-token" {
		t.Errorf("unexpected token %q", store.Token())
	}
}

func TestInitWithInvalidTokenClearsFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"msg": "Token has expired"})
	}))
	defer ts.Close()

	dir := t.TempDir()
	writeToken(t, dir, "expired-token")
	store := NewStore(sdk.NewClient(ts.URL), dir)

	store.Init()

	if store.IsAuthenticated() {
		t.Error("expected unauthenticated session after failed verification")
	}
	if store.User() != nil || store.Token() != "" {
		t.Error("expected token and user both cleared")
	}
	if tokenFileExists(dir) {
		t.Error("expected stale token file removed")
	}
}

func TestLoginPersistsToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sdk.LoginResponse{
			AccessToken: "fresh-token",
			User:        &sdk.User{ID: 2, Username: "bob"},
		})
	}))
	defer ts.Close()

	dir := t.TempDir()
	store := NewStore(sdk.NewClient(ts.URL), dir)

	if err := store.Login("bob", "pw"); err != nil {
		t.Fatal(err)
	}
	if !store.IsAuthenticated() {
		t.Fatal("expected authenticated session after login")
	}
	data, err := os.ReadFile(filepath.Join(dir, tokenFileName))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fresh-token" {
		t.Errorf("persisted token %q, want fresh-token", data)
	}
}

func TestLoginFailureLeavesNoPartialState(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"msg": "Invalid username or password"})
	}))
	defer ts.Close()

	dir := t.TempDir()
	store := NewStore(sdk.NewClient(ts.URL), dir)

	err := store.Login("bob", "wrong")
	if err == nil {
		t.Fatal("expected login error")
	}
	if err.Error() != "Invalid username or password" {
		t.Errorf("expected server message surfaced verbatim, got %q", err.Error())
	}
	if store.IsAuthenticated() || store.Token() != "" || store.User() != nil {
		t.Error("expected no partial session state after failed login")
	}
}

func TestLogoutClearsStateEvenWhenServerFails(t *testing.T) {
	logoutCalled := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(sdk.LoginResponse{
				AccessToken: "tok",
				User:        &sdk.User{ID: 3, Username: "carol"},
			})
		case "/api/auth/logout":
			logoutCalled = true
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"msg": "boom"})
		}
	}))
	defer ts.Close()

	dir := t.TempDir()
	client := sdk.NewClient(ts.URL)
	store := NewStore(client, dir)
	if err := store.Login("carol", "pw"); err != nil {
		t.Fatal(err)
	}

	store.Logout()

	if !logoutCalled {
		t.Error("expected best-effort server logout call")
	}
	if store.IsAuthenticated() || store.Token() != "" || store.User() != nil {
		t.Error("expected session cleared despite server failure")
	}
	if tokenFileExists(dir) {
		t.Error("expected token file removed")
	}
	if client.Token() != "" {
		t.Error("expected client token cleared after logout")
	}
}

func TestRegisterDoesNotEstablishSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sdk.RegisterResponse{
			Msg:  "User registered successfully",
			User: &sdk.User{ID: 1, Username: "dave", IsAdmin: true},
		})
	}))
	defer ts.Close()

	dir := t.TempDir()
	store := NewStore(sdk.NewClient(ts.URL), dir)

	resp, err := store.Register("dave", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Msg != "User registered successfully" {
		t.Errorf("unexpected msg %q", resp.Msg)
	}
	if store.IsAuthenticated() {
		t.Error("registration must not establish a session")
	}
	if tokenFileExists(dir) {
		t.Error("registration must not persist a token")
	}
}
