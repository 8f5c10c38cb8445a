package authzkit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubAuthorizer serves canned checkers keyed by user ID.
type stubAuthorizer struct {
	checkers map[string]*Checker
	err      error
}

func (s *stubAuthorizer) HasPermission(ctx context.Context, userID, permissionName string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	c, ok := s.checkers[userID]
	if !ok {
		return false, NewError(ErrInvalidUser, userID)
	}
	return c.HasPermission(permissionName), nil
}

func (s *stubAuthorizer) HasPermissionID(ctx context.Context, userID, permissionID string) (bool, error) {
	return s.HasPermission(ctx, userID, permissionID)
}

func (s *stubAuthorizer) GetChecker(ctx context.Context, userID string) (*Checker, error) {
	if s.err != nil {
		return nil, s.err
	}
	c, ok := s.checkers[userID]
	if !ok {
		return nil, NewError(ErrInvalidUser, userID)
	}
	return c, nil
}

func editorAuthorizer() *stubAuthorizer {
	roles := []Role{{ID: 1, Name: "editor"}}
	permsBy := map[int64][]Permission{1: {{ID: 10, Name: "article:write"}}}
	return &stubAuthorizer{checkers: map[string]*Checker{
		"user-1": newChecker("user-1", "admin", roles, permsBy),
	}}
}

func headerExtractor(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}

func TestRequirePermission(t *testing.T) {
	mw := NewMiddleware(editorAuthorizer(), WithUserIDExtractor(headerExtractor))

	var sawChecker *Checker
	handler := mw.RequirePermission("article:write")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawChecker = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/articles", nil)
		req.Header.Set("X-User-Id", "user-1")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NotNil(t, sawChecker)
		assert.Equal(t, "user-1", sawChecker.UserID())
	})

	t.Run("missing permission", func(t *testing.T) {
		denied := mw.RequirePermission("article:delete")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run")
		}))

		req := httptest.NewRequest(http.MethodPost, "/articles", nil)
		req.Header.Set("X-User-Id", "user-1")
		rec := httptest.NewRecorder()

		denied.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/articles", nil)
		req.Header.Set("X-User-Id", "user-99")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid-user")
	})

	t.Run("no user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/articles", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRequireUser(t *testing.T) {
	mw := NewMiddleware(editorAuthorizer(), WithUserIDExtractor(headerExtractor))

	handler := mw.RequireUser()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotNil(t, FromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-User-Id", "user-1")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDefaultUserIDExtractor(t *testing.T) {
	mw := NewMiddleware(editorAuthorizer())

	handler := mw.RequireUser()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req = req.WithContext(WithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCustomErrorHandler(t *testing.T) {
	mw := NewMiddleware(editorAuthorizer(),
		WithUserIDExtractor(headerExtractor),
		WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			w.WriteHeader(http.StatusTeapot)
		}),
	)

	handler := mw.RequirePermission("article:write")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/articles", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
