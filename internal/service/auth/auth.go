package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Skotchmaster/tossplace/internal/models"
	"github.com/Skotchmaster/tossplace/internal/repo"
	"github.com/Skotchmaster/tossplace/pkg/errs"
	"github.com/Skotchmaster/tossplace/pkg/hash"
	"github.com/Skotchmaster/tossplace/pkg/logging"
)

const MinPasswordLength = 6

// msgInvalidCredentials is shared by every login failure so callers
// cannot tell an unknown email from a wrong password.
const msgInvalidCredentials = "invalid email or password"

// AuthService keeps one logged-in user per process.
type AuthService struct {
	Repo   *repo.GormRepo
	Pepper string

	mu      sync.RWMutex
	current *models.User
}

func New(r *repo.GormRepo, pepper string) *AuthService {
	return &AuthService{Repo: r, Pepper: pepper}
}

func (s *AuthService) Hash(password string) string {
	return hash.HashPassword(password, s.Pepper)
}

func (s *AuthService) Verify(password, stored string) bool {
	return hash.CheckPassword(stored, password, s.Pepper)
}

func (s *AuthService) Register(ctx context.Context, username, email, password, fullName string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)

	if username == "" || email == "" || password == "" || fullName == "" {
		l.Warnw("register_error", "reason", "missing fields")
		return nil, fmt.Errorf("%w: all fields are required", errs.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		l.Warnw("register_error", "reason", "short password")
		return nil, fmt.Errorf("%w: password must be at least %d characters", errs.ErrValidation, MinPasswordLength)
	}

	taken, err := s.Repo.UserTaken(ctx, username, email, 0)
	if err != nil {
		l.Errorw("register_error", "reason", "cannot check existing users", "error", err)
		return nil, err
	}
	if taken {
		l.Warnw("register_error", "reason", "user already exists")
		return nil, fmt.Errorf("%w: user with this username or email already exists", errs.ErrConflict)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: s.Hash(password),
		FullName:     fullName,
		Active:       true,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		l.Errorw("register_error", "reason", "cannot create user", "error", err)
		return nil, err
	}

	l.Infow("register_success", "user_id", user.ID)
	out := user.Public()
	return &out, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", errs.ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			l.Warnw("login_failed", "reason", "unknown email")
			return nil, fmt.Errorf("%w: %s", errs.ErrAuthentication, msgInvalidCredentials)
		}
		l.Errorw("login_failed", "error", err)
		return nil, err
	}

	if !s.Verify(password, user.PasswordHash) || !user.Active {
		l.Warnw("login_failed", "reason", "password mismatch or inactive user")
		return nil, fmt.Errorf("%w: %s", errs.ErrAuthentication, msgInvalidCredentials)
	}

	out := user.Public()
	s.setCurrent(&out)

	l.Infow("login_success", "user_id", out.ID)
	return &out, nil
}

func (s *AuthService) Logout() {
	s.setCurrent(nil)
}

func (s *AuthService) setCurrent(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = u
}

// CurrentUser returns a copy of the logged-in user.
func (s *AuthService) CurrentUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.User{}, false
	}
	return *s.current, true
}

func (s *AuthService) IsLoggedIn() bool {
	u, ok := s.CurrentUser()
	return ok && u.ID > 0
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := user.Public()
	return &out, nil
}

// UpdateProfile saves the editable profile fields of u. The password
// and the active flag are not touched.
func (s *AuthService) UpdateProfile(ctx context.Context, u models.User) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.update_profile", "user_id", u.ID)

	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	u.FullName = strings.TrimSpace(u.FullName)
	if u.Username == "" || u.Email == "" || u.FullName == "" {
		return nil, fmt.Errorf("%w: username, email and full name are required", errs.ErrValidation)
	}

	if _, err := s.Repo.GetUserByID(ctx, u.ID); err != nil {
		return nil, err
	}

	taken, err := s.Repo.UserTaken(ctx, u.Username, u.Email, u.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		l.Warnw("update_profile_error", "reason", "username or email in use")
		return nil, fmt.Errorf("%w: username or email already in use", errs.ErrConflict)
	}

	if err := s.Repo.UpdateUserProfile(ctx, &u); err != nil {
		l.Errorw("update_profile_error", "error", err)
		return nil, err
	}

	updated, err := s.GetUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if cur, ok := s.CurrentUser(); ok && cur.ID == updated.ID {
		s.setCurrent(updated)
	}

	l.Infow("update_profile_success")
	out := *updated
	return &out, nil
}

// Deactivate soft-deletes a user; deactivated users cannot log in.
func (s *AuthService) Deactivate(ctx context.Context, id int64) error {
	if err := s.Repo.SetUserActive(ctx, id, false); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("%w: user %d", errs.ErrNotFound, id)
		}
		return err
	}
	if cur, ok := s.CurrentUser(); ok && cur.ID == id {
		s.Logout()
	}
	logging.FromContext(ctx).Infow("user_deactivated", "svc", "auth.deactivate", "user_id", id)
	return nil
}
