package apierr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageFallbacks(t *testing.T) {
	cause := errors.New("boom")
	assert.Equal(t, "boom", New(http.StatusInternalServerError, "internal", cause).Error())
	assert.Equal(t, "not_found", New(http.StatusNotFound, "not_found", nil).Error())
	assert.Equal(t, "api error (418)", New(http.StatusTeapot, "", nil).Error())

	var nilErr *Error
	assert.Equal(t, "", nilErr.Error())
}

func TestErrorUnwrapAndDetails(t *testing.T) {
	cause := errors.New("boom")
	e := New(http.StatusBadRequest, "bad", cause).WithDetails(map[string]int{"required": 4})

	assert.True(t, errors.Is(e, cause))
	assert.Equal(t, map[string]int{"required": 4}, e.Details)
}
