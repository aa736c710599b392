package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindInvalidInput, KindOf(InvalidInput("bad")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindUpstream, KindOf(Upstream("down", nil)))
	assert.Equal(t, KindConfig, KindOf(Config("unset")))

	// Unclassified errors report as upstream, never as a caller mistake.
	assert.Equal(t, KindUpstream, KindOf(errors.New("who knows")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("lookup failed: %w", NotFound("no such carrier"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, errors.Is(err, NotFound("anything")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("registry unreachable", cause)
	assert.True(t, errors.Is(err, cause))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("bad")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("missing")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(Upstream("down", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Config("unset")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(errors.New("who knows")))
}
