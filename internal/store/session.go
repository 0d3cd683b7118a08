package store

import (
	"context"
	"strings"

	"mealbook/internal/client"
	"mealbook/internal/server"
	"mealbook/internal/storage"
	"mealbook/internal/user"
)

// Durable storage keys for the auth state.
const (
	keyToken  = "token"
	keyUser   = "user"
	keyIsAuth = "isAuth"
	keyUserID = "userId"
)

// Session holds the current user, auth token and the list of other known
// users. Auth state is mirrored into durable storage on every fulfilled
// auth operation and rehydrated on construction.
type Session struct {
	api     client.Client
	storage *storage.Store

	State AsyncState

	Token         string
	User          *user.User
	Authenticated bool
	Users         []user.User
	SelectedUser  *user.User
}

// NewSession creates a session store, rehydrating any persisted auth state.
func NewSession(api client.Client, st *storage.Store) *Session {
	s := &Session{api: api, storage: st}

	_ = st.Load(keyToken, &s.Token)
	var u user.User
	if err := st.Load(keyUser, &u); err == nil {
		s.User = &u
	}
	_ = st.Load(keyIsAuth, &s.Authenticated)

	return s
}

// Register validates locally and creates an account. Validation failures
// are surfaced before any network call is issued.
func (s *Session) Register(ctx context.Context, name, email, password string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return s.rejectValidation("Name, email and password are required")
	}
	if len(password) < server.MinPasswordLength {
		return s.rejectValidation("Password must be at least 8 characters")
	}

	s.State.begin()
	result, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.State.reject(err)
		return err
	}

	s.applyAuth(result)
	return nil
}

// Login authenticates and stores the session.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.State.begin()
	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.State.reject(err)
		return err
	}

	s.applyAuth(result)
	return nil
}

// UpdateMe updates the current user's name and/or email.
func (s *Session) UpdateMe(ctx context.Context, name, email string) error {
	s.State.begin()
	updated, err := s.api.UpdateMe(ctx, s.Token, name, email)
	if err != nil {
		s.State.reject(err)
		return err
	}

	s.State.fulfill()
	s.User = updated
	_ = s.storage.Save(keyUser, updated)
	return nil
}

// FetchUsers loads all other users, filtering the current user out by the
// locally cached user ID.
func (s *Session) FetchUsers(ctx context.Context) error {
	s.State.begin()
	users, err := s.api.Users(ctx, s.Token)
	if err != nil {
		s.State.reject(err)
		return err
	}

	s.State.fulfill()

	var selfID string
	_ = s.storage.Load(keyUserID, &selfID)

	filtered := make([]user.User, 0, len(users))
	for _, u := range users {
		if u.ID != selfID {
			filtered = append(filtered, u)
		}
	}
	s.Users = filtered
	return nil
}

// FetchUserByID loads one user into SelectedUser.
func (s *Session) FetchUserByID(ctx context.Context, id string) error {
	s.State.begin()
	u, err := s.api.UserByID(ctx, s.Token, id)
	if err != nil {
		s.State.reject(err)
		return err
	}

	s.State.fulfill()
	s.SelectedUser = u
	return nil
}

// Logout clears the session and its durable mirror.
func (s *Session) Logout() {
	s.Token = ""
	s.User = nil
	s.Authenticated = false
	_ = s.storage.Delete(keyToken)
	_ = s.storage.Delete(keyUser)
	_ = s.storage.Delete(keyIsAuth)
	_ = s.storage.Delete(keyUserID)
}

func (s *Session) applyAuth(result *client.AuthResult) {
	s.State.fulfill()
	s.Token = result.Token
	s.User = result.User
	s.Authenticated = true

	_ = s.storage.Save(keyToken, result.Token)
	_ = s.storage.Save(keyUser, result.User)
	_ = s.storage.Save(keyIsAuth, true)
	_ = s.storage.Save(keyUserID, result.User.ID)
}

func (s *Session) rejectValidation(msg string) error {
	err := validationError(msg)
	s.State.Err = msg
	return err
}
