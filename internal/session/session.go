package session

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"netlab/pkg/sdk"
)

const tokenFileName = ".netlab_token"

// Store owns the current session: bearer token, current user, and a loading
// flag for the startup verification. The token is mirrored to a file in the
// config dir; it is only ever written by the store's own methods.
type Store struct {
	mu      sync.Mutex
	client  *sdk.Client
	dir     string
	user    *sdk.User
	token   string
	loading bool
}

func NewStore(client *sdk.Client, configDir string) *Store {
	return &Store{client: client, dir: configDir}
}

func (s *Store) tokenPath() string {
	return filepath.Join(s.dir, tokenFileName)
}

// Init exchanges a persisted token, if any, for the current user. On any
// failure both token and user are cleared and the token file is removed;
// no error escapes, a failed verification just yields a logged-out session.
func (s *Store) Init() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer s.setLoading(false)

	data, err := os.ReadFile(s.tokenPath())
	if err != nil {
		return
	}
	stored := strings.TrimSpace(string(data))
	if stored == "" {
		return
	}

	s.client.SetToken(stored)
	user, err := s.client.Me()
	if err != nil {
		log.Printf("Stored token is invalid or expired: %v", err)
		s.clear()
		return
	}

	s.mu.Lock()
	s.token = stored
	s.user = user
	s.mu.Unlock()
}

func (s *Store) Login(username, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.client.Login(username, password)
	if err != nil {
		s.clear()
		return err
	}

	if err := os.WriteFile(s.tokenPath(), []byte(resp.AccessToken), 0600); err != nil {
		log.Printf("Warning: could not persist token: %v", err)
	}

	s.client.SetToken(resp.AccessToken)
	s.mu.Lock()
	s.token = resp.AccessToken
	s.user = resp.User
	s.mu.Unlock()
	return nil
}

// Register creates an account but does not establish a session; the user
// logs in afterwards.
func (s *Store) Register(username, password string) (*sdk.RegisterResponse, error) {
	s.setLoading(true)
	defer s.setLoading(false)
	return s.client.Register(username, password)
}

// Logout clears local state and the persisted token before anything else;
// the server-side invalidation afterwards is best effort and its failure is
// only logged.
func (s *Store) Logout() {
	s.setLoading(true)
	defer s.setLoading(false)

	current := s.Token()
	s.clear()

	if current != "" {
		s.client.SetToken(current)
		if err := s.client.Logout(); err != nil {
			log.Printf("Backend logout failed: %v", err)
		}
		s.client.SetToken("")
	}
}

func (s *Store) clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.client.SetToken("")
	if err := os.Remove(s.tokenPath()); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not remove token file: %v", err)
	}
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// IsAuthenticated is computed, never stored: true iff both token and user
// are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.IsAdmin
}

func (s *Store) User() *sdk.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}
