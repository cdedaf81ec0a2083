package appstate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/services"
	"github.com/mrelokusa/PopQuiz/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct {
	user       *models.User
	restoreErr error
	signOutErr error

	events       chan services.SessionEvent
	ensured      int
	onSignOut    func()
	unsubscribed bool
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{events: make(chan services.SessionEvent, 8)}
}

func (f *fakeIdentity) Restore(ctx context.Context) (*models.User, error) {
	if f.restoreErr != nil {
		return nil, f.restoreErr
	}
	if f.user == nil {
		return nil, errors.New("no session")
	}
	return f.user, nil
}

func (f *fakeIdentity) SignOut(ctx context.Context) error {
	if f.onSignOut != nil {
		f.onSignOut()
	}
	return f.signOutErr
}

func (f *fakeIdentity) EnsureProfile(ctx context.Context, user *models.User) error {
	f.ensured++
	return nil
}

func (f *fakeIdentity) Subscribe() (<-chan services.SessionEvent, func()) {
	return f.events, func() { f.unsubscribed = true }
}

type fakeQuizSource struct {
	quizzes map[string]*models.Quiz
	feed    []models.Quiz
	fetches int
	listErr error
}

func (f *fakeQuizSource) List(ctx context.Context, scope storage.Scope, userID string) ([]models.Quiz, error) {
	f.fetches++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.feed, nil
}

func (f *fakeQuizSource) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	if quiz, ok := f.quizzes[id]; ok {
		return quiz, nil
	}
	return nil, storage.ErrNotFound
}

func TestInitDeepLinkJumpsToPlay(t *testing.T) {
	quiz := &models.Quiz{ID: "q1", Title: "Which sandwich are you?"}
	identity := newFakeIdentity()
	identity.restoreErr = errors.New("identity service down")
	source := &fakeQuizSource{quizzes: map[string]*models.Quiz{"q1": quiz}}

	c := New(identity, source)
	defer c.Close()
	c.Init(context.Background(), "https://popquiz.app/?quiz=q1")

	snap := c.Snapshot()
	assert.Equal(t, ViewPlay, snap.View)
	require.NotNil(t, snap.ActiveQuiz)
	assert.Equal(t, "q1", snap.ActiveQuiz.ID)
	assert.Nil(t, snap.User, "restore failure must not block the deep link")
}

func TestInitRestoresSessionAndEnsuresProfile(t *testing.T) {
	identity := newFakeIdentity()
	identity.user = &models.User{ID: "u1", Email: "alice@example.com"}
	source := &fakeQuizSource{}

	c := New(identity, source)
	defer c.Close()
	c.Init(context.Background(), "https://popquiz.app/")

	snap := c.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "u1", snap.User.ID)
	assert.Equal(t, 1, identity.ensured)
	assert.Equal(t, ViewLanding, snap.View)
}

func TestSignInEventReappliesEnsureProfile(t *testing.T) {
	identity := newFakeIdentity()
	source := &fakeQuizSource{}

	c := New(identity, source)
	defer c.Close()
	c.Init(context.Background(), "https://popquiz.app/")

	user := &models.User{ID: "u2"}
	identity.events <- services.SessionEvent{Type: services.SessionSignedIn, User: user}

	assert.Eventually(t, func() bool {
		snap := c.Snapshot()
		return snap.User != nil && snap.User.ID == "u2" && identity.ensured == 1
	}, time.Second, 5*time.Millisecond)
}

func TestNavigateLocalHubWithoutUserRedirectsToAuth(t *testing.T) {
	source := &fakeQuizSource{}
	c := New(newFakeIdentity(), source)

	c.Navigate(context.Background(), ViewLocalHub)

	assert.Equal(t, ViewAuth, c.Snapshot().View)
	assert.Zero(t, source.fetches, "no owner filter fetch without a user")
}

func TestNavigateRefetchesEveryEntry(t *testing.T) {
	source := &fakeQuizSource{feed: []models.Quiz{{ID: "q1"}}}
	c := New(newFakeIdentity(), source)
	c.SetUser(&models.User{ID: "u1"})

	c.Navigate(context.Background(), ViewLanding)
	c.Navigate(context.Background(), ViewLocalHub)
	c.Navigate(context.Background(), ViewLanding)

	assert.Equal(t, 3, source.fetches)
	assert.Len(t, c.Snapshot().Quizzes, 1)
}

func TestNavigateListFailureIsRecordedNotFatal(t *testing.T) {
	source := &fakeQuizSource{listErr: errors.New("storage offline")}
	c := New(newFakeIdentity(), source)

	c.Navigate(context.Background(), ViewLanding)

	snap := c.Snapshot()
	assert.Equal(t, ViewLanding, snap.View)
	assert.False(t, snap.Loading)
	assert.Equal(t, "storage offline", snap.LastError)
}

func TestPlayWithoutActiveQuizIsTolerated(t *testing.T) {
	c := New(newFakeIdentity(), &fakeQuizSource{})

	c.Navigate(context.Background(), ViewPlay)

	snap := c.Snapshot()
	assert.Equal(t, ViewPlay, snap.View)
	assert.Nil(t, snap.ActiveQuiz)
}

func TestLogoutKeepsUserUntilSignOutCompletes(t *testing.T) {
	identity := newFakeIdentity()
	c := New(identity, &fakeQuizSource{})
	c.SetUser(&models.User{ID: "u1"})
	c.SetActiveQuiz(&models.Quiz{ID: "q1"})

	identity.onSignOut = func() {
		assert.NotNil(t, c.Snapshot().User, "user must survive until the provider call returns")
	}
	c.Logout(context.Background())

	snap := c.Snapshot()
	assert.Nil(t, snap.User)
	assert.Nil(t, snap.ActiveQuiz)
	assert.Nil(t, snap.Quizzes)
	assert.Equal(t, ViewLanding, snap.View)
}

func TestCloseDropsLateCallbacks(t *testing.T) {
	identity := newFakeIdentity()
	c := New(identity, &fakeQuizSource{})
	c.Init(context.Background(), "https://popquiz.app/")

	c.Close()
	c.SetActiveQuiz(&models.Quiz{ID: "late"})
	c.Navigate(context.Background(), ViewCreate)

	snap := c.Snapshot()
	assert.Nil(t, snap.ActiveQuiz)
	assert.Equal(t, ViewLanding, snap.View)
	assert.True(t, identity.unsubscribed)
}

func TestNavigationNormalizesURL(t *testing.T) {
	c := New(newFakeIdentity(), &fakeQuizSource{})
	c.apply(func(s *Snapshot) { s.URL = "https://popquiz.app/?quiz=q1" })

	c.Navigate(context.Background(), ViewCreate)

	assert.Equal(t, "https://popquiz.app/", c.Snapshot().URL)
}

func TestConsumeDeepLink(t *testing.T) {
	assert.Equal(t, "q9", ConsumeDeepLink("https://popquiz.app/?quiz=q9"))
	assert.Equal(t, "", ConsumeDeepLink("https://popquiz.app/"))
	assert.Equal(t, "", ConsumeDeepLink("://not a url"))
}
