package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewProfileNotFound("x"), http.StatusBadRequest},
		{"validation", NewValidation([]FieldError{{Field: "status", Message: "Status is Required"}}), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("no token", nil), http.StatusUnauthorized},
		{"permission", NewPermissionDenied("nope"), http.StatusForbidden},
		{"conflict", NewConflict("profile", "user", "x"), http.StatusConflict},
		{"internal", NewInternal("db down", errors.New("dial tcp")), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("get profile failed: %w", NewProfileNotFound("x")), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToHTTPStatus(tc.err))
		})
	}
}

func TestToJSON(t *testing.T) {
	assert.Equal(t, gin.H{"msg": MsgNoProfile}, ToJSON(NewProfileNotFound("x")))

	fields := []FieldError{{Field: "skills", Message: "Skills is Required"}}
	assert.Equal(t, gin.H{"errors": fields}, ToJSON(NewValidation(fields)))

	// internal causes are never echoed
	assert.Equal(t, gin.H{"msg": MsgServerError}, ToJSON(NewInternal("pg: password auth failed", errors.New("secret"))))
	assert.Equal(t, gin.H{"msg": MsgServerError}, ToJSON(errors.New("raw")))
}

func TestAppError_UnwrapReachesCause(t *testing.T) {
	err := NewInternal("query failed", context.DeadlineExceeded)

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, IsExpected(err))
	assert.True(t, IsExpected(NewProfileNotFound("x")))
}
