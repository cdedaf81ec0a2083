package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/storage"
	"github.com/mrelokusa/PopQuiz/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// avatarGlyphs is the fixed set a new profile's avatar is drawn from.
var avatarGlyphs = []string{"👽", "👾", "🤖", "👻", "🦄", "🐯"}

type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
)

// SessionEvent is emitted to subscribers on every sign-in and sign-out,
// mirroring the identity provider's session-change notifications.
type SessionEvent struct {
	Type SessionEventType
	User *models.User
}

// AuthService is the identity provider: signup, signin, session restore,
// sign-out, and session-change notifications, plus the lazy profile row.
type AuthService struct {
	users     storage.UserStore
	profiles  storage.ProfileStore
	jwtSecret []byte

	mu      sync.Mutex
	subs    map[int]chan SessionEvent
	nextSub int
}

func NewAuthService(users storage.UserStore, profiles storage.ProfileStore, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		profiles:  profiles,
		jwtSecret: []byte(jwtSecret),
		subs:      make(map[int]chan SessionEvent),
	}
}

// SignUp registers a new identity and returns it with an active session
// token. Username is optional signup metadata.
func (s *AuthService) SignUp(ctx context.Context, email, password, username string) (*models.User, string, error) {
	errs := validation.Email(email)
	if username != "" {
		errs = append(errs, validation.Username(username)...)
	}
	if len(password) < 6 {
		errs = append(errs, validation.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	if validation.HasErrors(errs) {
		return nil, "", &ValidationError{Errors: errs}
	}

	email = validation.Sanitize(strings.ToLower(email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Username:     validation.Sanitize(username),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	if err := s.EnsureProfile(ctx, user); err != nil {
		// Profile creation is retried on the next sign-in; signup succeeded.
		slog.Warn("profile creation deferred", "user", user.ID, "err", err)
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	s.notify(SessionEvent{Type: SessionSignedIn, User: user})
	return user, token, nil
}

// SignIn authenticates an existing identity and opens a session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	email = validation.Sanitize(strings.ToLower(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	s.notify(SessionEvent{Type: SessionSignedIn, User: user})
	return user, token, nil
}

// SignOut ends the session for a user and notifies subscribers.
func (s *AuthService) SignOut(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	s.notify(SessionEvent{Type: SessionSignedOut, User: user})
	return nil
}

// Session restores the identity behind a token, or fails with
// ErrInvalidToken.
func (s *AuthService) Session(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// EnsureProfile lazily creates the app-local profile row for an identity.
// Check-then-create, not atomic: a concurrent create racing this call is
// treated as success.
func (s *AuthService) EnsureProfile(ctx context.Context, user *models.User) error {
	if user == nil {
		return nil
	}
	if _, err := s.profiles.GetByID(ctx, user.ID); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	username := user.Username
	if username == "" {
		if at := strings.Index(user.Email, "@"); at > 0 {
			username = user.Email[:at]
		}
	}
	if username == "" {
		username = "Anon"
	}

	profile := &models.Profile{
		ID:         user.ID,
		Username:   username,
		AvatarText: avatarGlyphs[rand.Intn(len(avatarGlyphs))],
		CreatedAt:  time.Now().UnixMilli(),
	}
	err := s.profiles.Insert(ctx, profile)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil
	}
	return err
}

// Profile returns the stored profile row for a user id.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.profiles.GetByID(ctx, userID)
}

// Subscribe registers for session-change events. The returned func removes
// the subscription; events are dropped, never blocked on, when a subscriber
// lags.
func (s *AuthService) Subscribe() (<-chan SessionEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan SessionEvent, 8)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
}

func (s *AuthService) notify(event SessionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (s *AuthService) generateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks a session token and returns the user id it carries.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
