package util

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))

	ctx = WithRequestID(ctx, "abc-123")
	assert.Equal(t, "abc-123", GetRequestID(ctx))

	generated := GetRequestID(WithRequestID(context.Background(), ""))
	assert.NotEmpty(t, generated, "empty id gets a generated uuid")
}
