// Package appstate holds the client-side session/view state machine used by
// the terminal player. One snapshot exists per container; it is replaced
// wholesale on every transition and consumers only ever read copies.
package appstate

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/services"
	"github.com/mrelokusa/PopQuiz/internal/storage"
)

type View string

const (
	ViewLanding  View = "landing"
	ViewAuth     View = "auth"
	ViewLocalHub View = "local_hub"
	ViewCreate   View = "create"
	ViewPlay     View = "play"
)

// Identity is the slice of the identity provider the container drives.
type Identity interface {
	Restore(ctx context.Context) (*models.User, error)
	SignOut(ctx context.Context) error
	EnsureProfile(ctx context.Context, user *models.User) error
	Subscribe() (<-chan services.SessionEvent, func())
}

// QuizSource reads quizzes for the list and play views. *services.QuizService
// satisfies it.
type QuizSource interface {
	List(ctx context.Context, scope storage.Scope, userID string) ([]models.Quiz, error)
	GetByID(ctx context.Context, id string) (*models.Quiz, error)
}

// Snapshot is the full client state at one instant.
type Snapshot struct {
	User           *models.User
	View           View
	ActiveQuiz     *models.Quiz
	Quizzes        []models.Quiz
	Loading        bool
	LoadingMessage string
	LastError      string
	URL            string
}

// Container owns the snapshot. All mutation goes through apply; once the
// container is closed, late callbacks are dropped instead of applied.
type Container struct {
	identity Identity
	quizzes  QuizSource

	mu          sync.Mutex
	snap        Snapshot
	closed      bool
	unsubscribe func()
}

func New(identity Identity, quizzes QuizSource) *Container {
	return &Container{
		identity: identity,
		quizzes:  quizzes,
		snap:     Snapshot{View: ViewLanding},
	}
}

// Snapshot returns a copy of the current state. The quiz list is copied so
// callers cannot mutate the container's slice.
func (c *Container) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.snap
	if snap.Quizzes != nil {
		snap.Quizzes = append([]models.Quiz(nil), snap.Quizzes...)
	}
	return snap
}

// apply runs fn against the snapshot unless the container was closed.
func (c *Container) apply(fn func(*Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	fn(&c.snap)
}

// Init restores the session and resolves the deep link concurrently; neither
// waits on the other and both failures are swallowed after logging. rawURL is
// the address the client was opened with; a quiz deep link in it forces an
// initial jump to the play view with that quiz loaded. Init also installs the
// session-change listener that keeps the profile row alive across sign-ins.
func (c *Container) Init(ctx context.Context, rawURL string) {
	c.apply(func(s *Snapshot) { s.URL = rawURL })

	ch, cancel := c.identity.Subscribe()
	c.mu.Lock()
	c.unsubscribe = cancel
	c.mu.Unlock()
	go c.listen(ctx, ch)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		user, err := c.identity.Restore(ctx)
		if err != nil {
			slog.Debug("no session to restore", "err", err)
			return
		}
		if err := c.identity.EnsureProfile(ctx, user); err != nil {
			slog.Warn("ensure profile failed during restore", "err", err)
		}
		c.apply(func(s *Snapshot) { s.User = user })
	}()

	go func() {
		defer wg.Done()
		quizID := ConsumeDeepLink(rawURL)
		if quizID == "" {
			return
		}
		quiz, err := c.quizzes.GetByID(ctx, quizID)
		if err != nil {
			slog.Warn("deep-linked quiz did not resolve", "quiz", quizID, "err", err)
			return
		}
		c.apply(func(s *Snapshot) {
			s.ActiveQuiz = quiz
			s.View = ViewPlay
		})
	}()

	wg.Wait()
}

func (c *Container) listen(ctx context.Context, ch <-chan services.SessionEvent) {
	for event := range ch {
		switch event.Type {
		case services.SessionSignedIn:
			if err := c.identity.EnsureProfile(ctx, event.User); err != nil {
				slog.Warn("ensure profile failed on sign-in event", "err", err)
			}
			user := event.User
			c.apply(func(s *Snapshot) { s.User = user })
		case services.SessionSignedOut:
			c.apply(func(s *Snapshot) { s.User = nil })
		}
	}
}

// Navigate moves to the requested view. The tracked URL drops its query on
// any explicit navigation. Entering the landing or local hub re-fetches the
// matching quiz list every time; the local hub without a signed-in user
// redirects to the auth view instead of fetching with no owner.
func (c *Container) Navigate(ctx context.Context, view View) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if view == ViewLocalHub && c.snap.User == nil {
		view = ViewAuth
	}
	c.snap.View = view
	c.snap.URL = baseURL(c.snap.URL)
	user := c.snap.User
	c.mu.Unlock()

	switch view {
	case ViewLanding:
		c.refreshList(ctx, storage.ScopeGlobal, "")
	case ViewLocalHub:
		c.refreshList(ctx, storage.ScopeLocal, user.ID)
	}
}

func (c *Container) refreshList(ctx context.Context, scope storage.Scope, userID string) {
	c.apply(func(s *Snapshot) {
		s.Loading = true
		s.LoadingMessage = "loading quizzes"
		s.LastError = ""
	})

	quizzes, err := c.quizzes.List(ctx, scope, userID)
	c.apply(func(s *Snapshot) {
		s.Loading = false
		s.LoadingMessage = ""
		if err != nil {
			slog.Warn("quiz list fetch failed", "scope", scope, "err", err)
			s.LastError = err.Error()
			return
		}
		s.Quizzes = quizzes
	})
}

// SetActiveQuiz records the quiz the next play session runs against.
func (c *Container) SetActiveQuiz(quiz *models.Quiz) {
	c.apply(func(s *Snapshot) { s.ActiveQuiz = quiz })
}

// SetUser is used by the auth view after an in-process sign-up or sign-in.
func (c *Container) SetUser(user *models.User) {
	c.apply(func(s *Snapshot) { s.User = user })
}

// Logout signs out with the provider first; the user field survives until
// that call returns so the UI never shows a half-logged-out state. Quiz and
// list state is wiped either way.
func (c *Container) Logout(ctx context.Context) {
	if err := c.identity.SignOut(ctx); err != nil {
		slog.Warn("provider sign-out failed", "err", err)
	}
	c.apply(func(s *Snapshot) {
		s.User = nil
		s.ActiveQuiz = nil
		s.Quizzes = nil
		s.LastError = ""
		s.View = ViewLanding
	})
}

// Close raises the cancellation flag and tears down the session listener.
// Any state-updating callback that lands afterwards is dropped.
func (c *Container) Close() {
	c.mu.Lock()
	c.closed = true
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// ConsumeDeepLink extracts the quiz id carried in the "quiz" query parameter,
// or "" when the URL has none (or does not parse).
func ConsumeDeepLink(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("quiz")
}

func baseURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
