package auth

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/motormate/motormate/internal/db"
	"github.com/motormate/motormate/internal/models"
)

// Session tracks the signed-in user for components that care about sign-in
// state rather than per-request tokens (the cloud push hook, mainly).
// Observers fire on every sign-in and sign-out.
type Session struct {
	mu        sync.Mutex
	userID    string
	email     string
	observers []func(signedIn bool)
}

// OnChange registers an observer called with the new sign-in state.
func (s *Session) OnChange(fn func(signedIn bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Current returns the signed-in user's id, if any.
func (s *Session) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.userID != ""
}

// Email returns the signed-in user's email, if any.
func (s *Session) Email() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email, s.email != ""
}

func (s *Session) set(userID, email string) {
	s.mu.Lock()
	s.userID = userID
	s.email = email
	observers := s.observers
	signedIn := userID != ""
	s.mu.Unlock()
	for _, fn := range observers {
		fn(signedIn)
	}
}

// Accounts implements account registration and sign-in over the user
// collection, maintaining the process-wide session.
type Accounts struct {
	users   db.UserCollection
	service *Service
	session *Session
}

// NewAccounts creates the account service. The session starts signed out.
func NewAccounts(users db.UserCollection, service *Service) *Accounts {
	return &Accounts{users: users, service: service, session: &Session{}}
}

// Session exposes the sign-in state holder.
func (a *Accounts) Session() *Session {
	return a.session
}

// Register creates an account and signs it in.
func (a *Accounts) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	if err := a.service.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := a.service.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	if _, err := a.users.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := a.service.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Mobile:       req.Mobile,
	}
	if err := a.users.InsertUser(ctx, user); err != nil {
		return nil, err
	}

	created, err := a.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	return a.signIn(ctx, created)
}

// SignIn verifies credentials and establishes the session.
func (a *Accounts) SignIn(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := a.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !a.service.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return a.signIn(ctx, user)
}

func (a *Accounts) signIn(ctx context.Context, user *models.User) (*models.LoginResponse, error) {
	token, err := a.service.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	if err := a.users.UpdateLastLogin(ctx, user.ID.Hex()); err != nil {
		log.WithError(err).Warn("Failed to stamp last login")
	}

	a.session.set(user.ID.Hex(), user.Email)
	log.WithFields(log.Fields{"email": user.Email}).Info("User signed in")
	return &models.LoginResponse{Token: token, User: *user}, nil
}

// SignOut clears the session. Local data stays on disk.
func (a *Accounts) SignOut() {
	if email, ok := a.session.Email(); ok {
		log.WithFields(log.Fields{"email": email}).Info("User signed out")
	}
	a.session.set("", "")
}

// SendPasswordReset stores a reset token on the account. Delivery is out of
// band; the token is logged for the operator to relay.
func (a *Accounts) SendPasswordReset(ctx context.Context, email string) error {
	user, err := a.users.FindUserByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrUserNotFound
		}
		return err
	}

	token, err := a.service.GenerateResetToken()
	if err != nil {
		return err
	}

	user.ResetToken = token
	if err := a.users.UpdateUser(ctx, user.ID.Hex(), *user); err != nil {
		return err
	}

	log.WithFields(log.Fields{"email": email}).Info("Password reset token issued")
	return nil
}
