package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindvault/internal/auth"
	"mindvault/internal/domain"
	"mindvault/internal/service"
	"mindvault/internal/storage/memory"
)

type stubEmbedder struct {
	vec []float64
	err error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return s.vec, s.err
}

func (s *stubEmbedder) Dimension() int { return len(s.vec) }

type nopMailer struct{}

func (nopMailer) SendOTP(ctx context.Context, email, otp string, purpose domain.VerificationPurpose) error {
	return nil
}

type fixture struct {
	router *gin.Engine
	items  *memory.ItemStore
	users  *memory.UserStore
	tokens *auth.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	items := memory.NewItemStore()
	users := memory.NewUserStore()
	links := memory.NewLinkStore(users)
	tokens := auth.NewTokenManager([]byte("test-secret"), "mindvault", time.Hour)
	embedder := &stubEmbedder{vec: []float64{1, 0}}

	h := NewHandler(
		service.NewAuthService(users, memory.NewVerificationStore(), nopMailer{}, tokens, 5*time.Minute, log),
		service.NewContentService(items, embedder, log),
		service.NewSearchService(items, embedder, 0.25, 10, log),
		service.NewShareService(links, users, items),
		tokens,
		log,
	)
	return &fixture{router: h.Router(), items: items, users: users, tokens: tokens}
}

// newUser registers a verified user directly in the store and returns a
// valid bearer token.
func (f *fixture) newUser(t *testing.T, username string) (uuid.UUID, string) {
	t.Helper()
	u := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "x", Verified: true}
	require.NoError(t, f.users.Create(context.Background(), u))
	token, err := f.tokens.Generate(u.ID)
	require.NoError(t, err)
	return u.ID, "Bearer " + token
}

func (f *fixture) do(method, path, authHeader string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func seed(t *testing.T, items *memory.ItemStore, userID uuid.UUID) {
	t.Helper()
	for _, it := range []domain.Item{
		{UserID: userID, Title: "go talk", Link: "https://a", Type: domain.TypeYouTube, Embedding: []float64{1, 0}},
		{UserID: userID, Title: "cat pic", Link: "https://b", Type: domain.TypeTwitter, Embedding: []float64{0, 1}},
		{UserID: userID, Title: "go notes", Link: "#", Type: domain.TypeNote, Embedding: []float64{0.9, 0.1}},
	} {
		item := it
		require.NoError(t, items.Create(context.Background(), &item))
	}
}

func TestSearchSemanticRequiresAuth(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPost, "/api/v1/search/semantic", "", gin.H{"vector": []float64{1, 0}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSearchSemanticRequiresVector(t *testing.T) {
	f := newFixture(t)
	_, token := f.newUser(t, "alice")

	for _, body := range []interface{}{gin.H{}, gin.H{"vector": "nope"}} {
		w := f.do(http.MethodPost, "/api/v1/search/semantic", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestSearchSemanticRanksResults(t *testing.T) {
	f := newFixture(t)
	userID, token := f.newUser(t, "alice")
	seed(t, f.items, userID)

	w := f.do(http.MethodPost, "/api/v1/search/semantic", token, gin.H{"vector": []float64{1, 0}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []struct {
			Title string  `json:"title"`
			Score float64 `json:"score"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "go talk", resp.Results[0].Title)
	assert.Equal(t, "go notes", resp.Results[1].Title)
	for _, r := range resp.Results {
		assert.Greater(t, r.Score, 0.25)
	}
}

func TestSearchSemanticZeroVectorGivesEmptyResults(t *testing.T) {
	f := newFixture(t)
	userID, token := f.newUser(t, "alice")
	seed(t, f.items, userID)

	w := f.do(http.MethodPost, "/api/v1/search/semantic", token, gin.H{"vector": []float64{0, 0}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":[]}`, w.Body.String())
}

func TestSearchSemanticScopedToCaller(t *testing.T) {
	f := newFixture(t)
	ownerID, _ := f.newUser(t, "owner")
	seed(t, f.items, ownerID)
	_, strangerToken := f.newUser(t, "stranger")

	w := f.do(http.MethodPost, "/api/v1/search/semantic", strangerToken, gin.H{"vector": []float64{1, 0}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":[]}`, w.Body.String())
}

func TestSearchTextEndpoint(t *testing.T) {
	f := newFixture(t)
	userID, token := f.newUser(t, "alice")
	seed(t, f.items, userID)

	w := f.do(http.MethodGet, "/api/v1/search?q=golang", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []struct {
			Title string `json:"title"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "go talk", resp.Results[0].Title)

	w = f.do(http.MethodGet, "/api/v1/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContentLifecycle(t *testing.T) {
	f := newFixture(t)
	_, token := f.newUser(t, "alice")

	w := f.do(http.MethodPost, "/api/v1/content", token, gin.H{
		"link": "https://youtube.com/watch?v=abc", "type": "youtube", "title": "go talk",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Content struct {
			ID string `json:"id"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = f.do(http.MethodGet, "/api/v1/content", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go talk")

	w = f.do(http.MethodDelete, "/api/v1/content", token, gin.H{"contentId": created.Content.ID})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/v1/content", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "go talk")
}

func TestContentRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	_, token := f.newUser(t, "alice")

	w := f.do(http.MethodPost, "/api/v1/content", token, gin.H{
		"link": "https://a", "type": "podcast", "title": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupValidation(t *testing.T) {
	f := newFixture(t)

	for name, body := range map[string]gin.H{
		"bad email":     {"username": "bob", "email": "nope", "password": "Str0ng!pass"},
		"weak password": {"username": "bob", "email": "bob@example.com", "password": "password"},
		"bad username":  {"username": "bob!", "email": "bob@example.com", "password": "Str0ng!pass"},
	} {
		w := f.do(http.MethodPost, "/api/v1/signup", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}

	w := f.do(http.MethodPost, "/api/v1/signup", "", gin.H{
		"username": "bob", "email": "bob@example.com", "password": "Str0ng!pass",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestShareFlow(t *testing.T) {
	f := newFixture(t)
	userID, token := f.newUser(t, "alice")
	seed(t, f.items, userID)

	w := f.do(http.MethodPost, "/api/v1/brain/share", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var share struct {
		Hash     string `json:"hash"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &share))
	assert.Len(t, share.Hash, 10)
	assert.Equal(t, "alice", share.Username)

	// sharing again returns the same hash
	w = f.do(http.MethodPost, "/api/v1/brain/share", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), share.Hash)

	// the public view needs no token
	w = f.do(http.MethodGet, "/api/v1/brain/"+share.Hash, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go talk")

	w = f.do(http.MethodGet, "/api/v1/public-brains", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), share.Hash)

	w = f.do(http.MethodDelete, "/api/v1/brain/me/link", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(http.MethodGet, "/api/v1/brain/me/link", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
