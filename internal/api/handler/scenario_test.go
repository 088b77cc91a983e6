package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/notekeeper/notes-api/internal/api/middleware"
	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/service"
	"github.com/notekeeper/notes-api/internal/core/token"
)

// memUserRepo is an in-memory stand-in for the Mongo-backed repository,
// mirroring its single-document update semantics.
type memUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	clone.Notes = append([]domain.Note(nil), u.Notes...)
	return &clone, nil
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.seq++
	clone := *user
	clone.ID = fmt.Sprintf("user_%d", r.seq)
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memUserRepo) PushNote(_ context.Context, userID string, note domain.Note) (bool, error) {
	u, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	u.Notes = append(u.Notes, note)
	return true, nil
}

func (r *memUserRepo) PatchNote(_ context.Context, userID, noteID, title, body string) (bool, error) {
	u, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	return domain.PatchNote(u.Notes, noteID, title, body), nil
}

func (r *memUserRepo) PullNote(_ context.Context, userID, noteID string) error {
	if u, ok := r.users[userID]; ok {
		u.Notes = domain.SpliceNote(u.Notes, noteID)
	}
	return nil
}

type noopLimiter struct{}

func (noopLimiter) TooMany(context.Context, string) (bool, error) { return false, nil }
func (noopLimiter) RecordFailure(context.Context, string) error   { return nil }
func (noopLimiter) Reset(context.Context, string) error           { return nil }

// newScenarioServer wires real services over the in-memory repository with
// the production route layout.
func newScenarioServer() *echo.Echo {
	tokens := token.NewIssuer("secret", "notes-api", "notes-client", 30*time.Minute)
	repo := newMemUserRepo()
	authService := service.NewAuthService(repo, tokens, noopLimiter{}, zerolog.Nop())
	noteService := service.NewNoteService(repo, zerolog.Nop())

	e := echo.New()
	e.Validator = NewValidator()

	authHandler := NewAuthHandler(authService, tokens)
	noteHandler := NewNoteHandler(noteService)
	sessionAuth := middleware.SessionAuth(tokens)

	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/tokeninfo", authHandler.TokenInfo)

	tasks := e.Group("/api/tasks", sessionAuth)
	tasks.GET("", noteHandler.List)
	tasks.POST("", noteHandler.Create)
	tasks.GET("/:id", noteHandler.GetByID)
	tasks.PUT("/:id", noteHandler.Update)
	tasks.DELETE("/:id", noteHandler.Delete)

	return e
}

func doJSON(e *echo.Echo, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginNoteLifecycle(t *testing.T) {
	e := newScenarioServer()

	// register → 201 with token and cookie
	rec := doJSON(e, http.MethodPost, "/api/auth/register", `{"email":"alice@example.com","password":"pw123"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var registerResp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &registerResp); err != nil || registerResp["token"] == "" {
		t.Fatalf("register: expected token, got %s", rec.Body.String())
	}

	// login with the same credentials → 200 with a valid token
	rec = doJSON(e, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"pw123"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var loginResp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &loginResp); err != nil || loginResp["token"] == "" {
		t.Fatalf("login: expected token, got %s", rec.Body.String())
	}
	session := &http.Cookie{Name: middleware.SessionCookie, Value: loginResp["token"]}

	// tokeninfo reflects the session identity
	rec = doJSON(e, http.MethodGet, "/api/auth/tokeninfo", "", session)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "alice@example.com") {
		t.Fatalf("tokeninfo: unexpected response %d (%s)", rec.Code, rec.Body.String())
	}

	// unauthenticated note access is rejected
	rec = doJSON(e, http.MethodGet, "/api/tasks", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("tasks without cookie: expected 401, got %d", rec.Code)
	}

	// create a note → 201 with assigned id
	rec = doJSON(e, http.MethodPost, "/api/tasks", `{"title":"t","body":"b"}`, session)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create note: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var created map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("create note: invalid json: %v", err)
	}
	noteID, _ := created["id"].(string)
	if noteID == "" {
		t.Fatalf("create note: expected assigned id, got %+v", created)
	}

	// get it back → same title/body
	rec = doJSON(e, http.MethodGet, "/api/tasks/"+noteID, "", session)
	if rec.Code != http.StatusOK {
		t.Fatalf("get note: expected 200, got %d", rec.Code)
	}
	var got map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got["title"] != "t" || got["body"] != "b" {
		t.Fatalf("get note: unexpected payload %+v", got)
	}

	// update the title → 204, then the change is visible
	rec = doJSON(e, http.MethodPut, "/api/tasks/"+noteID, `{"title":"t2"}`, session)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update note: expected 204, got %d (%s)", rec.Code, rec.Body.String())
	}
	rec = doJSON(e, http.MethodGet, "/api/tasks/"+noteID, "", session)
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got["title"] != "t2" {
		t.Fatalf("update note: title not updated: %+v", got)
	}

	// delete → 204, then it is gone
	rec = doJSON(e, http.MethodDelete, "/api/tasks/"+noteID, "", session)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete note: expected 204, got %d", rec.Code)
	}
	rec = doJSON(e, http.MethodGet, "/api/tasks/"+noteID, "", session)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted note: expected 404, got %d", rec.Code)
	}

	// and the list is empty again
	rec = doJSON(e, http.MethodGet, "/api/tasks", "", session)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("list: expected empty array, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestDuplicateRegistration(t *testing.T) {
	e := newScenarioServer()

	rec := doJSON(e, http.MethodPost, "/api/auth/register", `{"email":"bob@example.com","password":"pw"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", rec.Code)
	}
	rec = doJSON(e, http.MethodPost, "/api/auth/register", `{"email":"bob@example.com","password":"other"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second register: expected 409, got %d", rec.Code)
	}
}
