package handlers

import (
	"context"
	"io"
	"time"

	"travelstory/internal/feed"
	"travelstory/internal/models"
	"travelstory/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpUser models.User
	signUpTok  string
	signUpErr  error
	signInUser models.User
	signInTok  string
	signInErr  error
	parseID    int
	parseErr   error
	getUser    models.User
	getUserErr error

	lastSignUpEmail string
	lastSignInEmail string
	lastParseToken  string
}

func (m *mockAuth) SignUp(fullName, email, password string) (models.User, string, error) {
	m.lastSignUpEmail = email
	return m.signUpUser, m.signUpTok, m.signUpErr
}
func (m *mockAuth) SignIn(email, password string) (models.User, string, error) {
	m.lastSignInEmail = email
	return m.signInUser, m.signInTok, m.signInErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}
func (m *mockAuth) GetUser(ctx context.Context, id int) (models.User, error) {
	return m.getUser, m.getUserErr
}

type mockStories struct {
	story    models.Story
	stories  []models.Story
	err      error
	delErr   error
	lastID   string
	lastOwn  int
	lastPar  service.StoryParams
	lastFav  bool
	lastFrom time.Time
	lastTo   time.Time
	lastQry  string
}

func (m *mockStories) Create(ctx context.Context, ownerID int, p service.StoryParams) (models.Story, error) {
	m.lastOwn, m.lastPar = ownerID, p
	return m.story, m.err
}
func (m *mockStories) List(ctx context.Context, ownerID int) ([]models.Story, error) {
	m.lastOwn = ownerID
	return m.stories, m.err
}
func (m *mockStories) Edit(ctx context.Context, id string, ownerID int, p service.StoryParams) (models.Story, error) {
	m.lastID, m.lastOwn, m.lastPar = id, ownerID, p
	return m.story, m.err
}
func (m *mockStories) SetFavourite(ctx context.Context, id string, ownerID int, fav bool) (models.Story, error) {
	m.lastID, m.lastOwn, m.lastFav = id, ownerID, fav
	return m.story, m.err
}
func (m *mockStories) Delete(ctx context.Context, id string, ownerID int) error {
	m.lastID, m.lastOwn = id, ownerID
	return m.delErr
}
func (m *mockStories) Search(ctx context.Context, ownerID int, query string) ([]models.Story, error) {
	m.lastOwn, m.lastQry = ownerID, query
	return m.stories, m.err
}
func (m *mockStories) FilterByDate(ctx context.Context, ownerID int, from, to time.Time) ([]models.Story, error) {
	m.lastOwn, m.lastFrom, m.lastTo = ownerID, from, to
	return m.stories, m.err
}

type mockMedia struct {
	storeURL   string
	storeErr   error
	releaseErr error

	lastStored   string
	lastReleased string
}

func (m *mockMedia) Store(originalName string, src io.Reader) (string, error) {
	m.lastStored = originalName
	return m.storeURL, m.storeErr
}
func (m *mockMedia) Release(imageRef string) error {
	m.lastReleased = imageRef
	return m.releaseErr
}
func (m *mockMedia) Placeholder() string { return "http://localhost:8000/assets/placeholder.png" }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, feed.New(), nil, Config{})
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
