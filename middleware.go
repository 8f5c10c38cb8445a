package authzkit

import (
	"net/http"
)

// Middleware provides HTTP middleware for permission checking. Routing and
// request parsing stay in the host application; the middleware only needs a
// way to extract the caller's (pre-authenticated) user ID.
type Middleware struct {
	authorizer   Authorizer
	getUserID    func(*http.Request) string
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := authzkit.NewMiddleware(service,
//	    authzkit.WithUserIDExtractor(func(r *http.Request) string {
//	        return r.Header.Get("X-User-Id")
//	    }),
//	)
func NewMiddleware(authorizer Authorizer, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		authorizer:   authorizer,
		getUserID:    defaultGetUserID,
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithUserIDExtractor sets a custom function to extract user ID from request.
func WithUserIDExtractor(fn func(*http.Request) string) MiddlewareOption {
	return func(m *Middleware) {
		m.getUserID = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

func defaultGetUserID(r *http.Request) string {
	return GetUserID(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case IsInvalidUser(err) || IsInvalidPermission(err):
		http.Error(w, ErrorCode(err), http.StatusBadRequest)
	case IsNotFound(err):
		http.Error(w, ErrorCode(err), http.StatusBadRequest)
	default:
		http.Error(w, "internal-error", http.StatusInternalServerError)
	}
}

// RequirePermission returns middleware that rejects requests whose caller
// does not hold the named permission. On success a Checker snapshot is
// stored in the request context for downstream handlers.
//
// Example:
//
//	router.With(mw.RequirePermission("article:write")).
//	    Post("/articles", createArticle)
func (m *Middleware) RequirePermission(permissionName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := m.getUserID(r)
			if userID == "" {
				m.errorHandler(w, r, NewError(ErrInvalidUser, "no user id on request"))
				return
			}

			checker, err := m.authorizer.GetChecker(r.Context(), userID)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}
			if !checker.HasPermission(permissionName) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithChecker(r.Context(), checker)))
		})
	}
}

// RequireUser returns middleware that only asserts a caller identity is
// present, loading its Checker into context without requiring any specific
// permission.
func (m *Middleware) RequireUser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := m.getUserID(r)
			if userID == "" {
				m.errorHandler(w, r, NewError(ErrInvalidUser, "no user id on request"))
				return
			}

			checker, err := m.authorizer.GetChecker(r.Context(), userID)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithChecker(r.Context(), checker)))
		})
	}
}
