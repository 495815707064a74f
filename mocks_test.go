package auth_test

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	auth "github.com/vendora/go-auth"
)

// memoryUserStore is an in-memory auth.UserStore that enforces the same
// uniqueness guarantees the Mongo indexes provide.
type memoryUserStore struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

var _ auth.UserStore = (*memoryUserStore)(nil)

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: map[string]*auth.User{}}
}

func (s *memoryUserStore) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, auth.ErrEmailTaken
		}
		if existing.CPF == user.CPF {
			return nil, auth.ErrCPFTaken
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	clone := *user
	s.users[user.ID.Hex()] = &clone

	return user, nil
}

func (s *memoryUserStore) GetByID(ctx context.Context, id string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *memoryUserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, auth.ErrIdentityNotFound
}

func (s *memoryUserStore) GetByConfirmationToken(ctx context.Context, token string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ConfirmationToken == token || user.ConsumedToken == token {
			clone := *user
			return &clone, nil
		}
	}
	return nil, auth.ErrConfirmationNotFound
}

func (s *memoryUserStore) Confirm(ctx context.Context, id, token string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}

	user.Confirmed = true
	user.ConsumedToken = token
	user.ConfirmationToken = ""
	user.ConfirmationExpires = nil
	user.UpdatedAt = time.Now()

	clone := *user
	return &clone, nil
}

func (s *memoryUserStore) Update(ctx context.Context, user *auth.User) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID.Hex()]; !ok {
		return nil, auth.ErrIdentityNotFound
	}
	user.UpdatedAt = time.Now()
	clone := *user
	s.users[user.ID.Hex()] = &clone
	return user, nil
}

func (s *memoryUserStore) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID.Hex()]
	if !ok {
		return auth.ErrIdentityNotFound
	}
	now := time.Now()
	stored.LastLoginAt = &now
	stored.UpdatedAt = now
	return nil
}

// add seeds a user directly, bypassing uniqueness checks.
func (s *memoryUserStore) add(user *auth.User) *auth.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	clone := *user
	s.users[user.ID.Hex()] = &clone
	return user
}

// recordingMailer captures confirmation sends and can be forced to fail.
type recordingMailer struct {
	mu    sync.Mutex
	sent  []sentMail
	fail  error
	calls int
}

type sentMail struct {
	to    string
	name  string
	token string
}

var _ auth.Mailer = (*recordingMailer)(nil)

func (m *recordingMailer) SendConfirmation(ctx context.Context, to, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{to: to, name: name, token: token})
	return nil
}

// stubTokenService lets tests hand Auther arbitrary claims, bypassing
// signature checks.
type stubTokenService struct {
	claims auth.AuthClaims
	err    error
}

var _ auth.TokenService = (*stubTokenService)(nil)

func (s *stubTokenService) Generate(identity auth.Identity) (string, error) {
	return "stub-token", nil
}

func (s *stubTokenService) SignClaims(claims *auth.JWTClaims) (string, error) {
	return "stub-token", nil
}

func (s *stubTokenService) Validate(tokenString string) (auth.AuthClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
