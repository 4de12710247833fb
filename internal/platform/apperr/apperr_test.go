package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCode(t *testing.T) {
	err := NotFound("borrow with id: 7 not exists")

	assert.True(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(err, CodeAlreadyExists))
	assert.False(t, IsCode(errors.New("plain"), CodeNotFound))
	assert.False(t, IsCode(nil, CodeNotFound))

	// Wrapped domain errors are still recognized.
	wrapped := fmt.Errorf("create borrow: %w", err)
	assert.True(t, IsCode(wrapped, CodeNotFound))
}

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NotFound("x"), http.StatusNotFound},
		{AlreadyExists("x"), http.StatusConflict},
		{AlreadyReturned("x"), http.StatusConflict},
		{NotAuthorized("x"), http.StatusForbidden},
		{AccessDenied("x"), http.StatusForbidden},
		{InvalidArgument("x"), http.StatusBadRequest},
		{InvalidCredentials("x"), http.StatusUnauthorized},
		{Internal("x"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, ToHTTPStatus(tc.err), "%v", tc.err)
	}
}

func TestFromErr(t *testing.T) {
	body := FromErr(AccessDenied("you are not authorized to return this book"))
	assert.Equal(t, CodeAccessDenied, body.Error.Code)
	assert.Equal(t, "you are not authorized to return this book", body.Error.Message)

	// Non-domain errors never leak their message to the client.
	body = FromErr(errors.New("dial tcp: connection refused"))
	assert.Equal(t, CodeInternal, body.Error.Code)
	assert.NotContains(t, body.Error.Message, "dial tcp")
}
