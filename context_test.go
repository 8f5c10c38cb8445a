package authzkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextUserID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetUserID(ctx))

	ctx = WithUserID(ctx, "user-1")
	assert.Equal(t, "user-1", GetUserID(ctx))
}

func TestContextRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRequestID(ctx))

	ctx = WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", GetRequestID(ctx))
}

func TestContextChecker(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetChecker(ctx))
	assert.Nil(t, FromContext(ctx))

	checker := newChecker("user-1", "admin", nil, nil)
	ctx = WithChecker(ctx, checker)
	assert.Same(t, checker, GetChecker(ctx))
	assert.Same(t, checker, FromContext(ctx))
}
