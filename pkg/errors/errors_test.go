package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/rostermatch/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	err := pkgerrors.NewNotFoundError("directory", "src/content/players")
	assert.Equal(t, "directory src/content/players not found", err.Error())
	assert.True(t, pkgerrors.IsNotFound(err))

	wrapped := fmt.Errorf("collect roster: %w", err)
	assert.True(t, pkgerrors.IsNotFound(wrapped))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("ctf_url", "", "cannot be empty")
		assert.Equal(t, "validation failed for field ctf_url: cannot be empty", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "bad config"}
		assert.Equal(t, "validation failed: bad config", err.Error())
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		message     string
		want        string
		unavailable bool
	}{
		{"not found", 404, "404 Not Found", "API error from ctf (status 404): 404 Not Found", false},
		{"server error", 502, "502 Bad Gateway", "API error from ctf (status 502): 502 Bad Gateway", true},
		{"rate limited", 429, "429 Too Many Requests", "API error from ctf (status 429): 429 Too Many Requests", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &pkgerrors.APIError{Source: "ctf", StatusCode: tt.statusCode, Message: tt.message}
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, tt.unavailable, pkgerrors.IsSourceUnavailable(err))
		})
	}

	t.Run("transport failure", func(t *testing.T) {
		base := errors.New("connection refused")
		err := &pkgerrors.APIError{Source: "tdm", Message: base.Error(), Err: base}
		assert.Equal(t, "API error from tdm: connection refused", err.Error())
		assert.ErrorIs(t, err, base)
		assert.False(t, pkgerrors.IsSourceUnavailable(err))
	})
}

func TestIOError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.WrapIO("read", "players/a.yaml", base)
	require.Error(t, err)
	assert.Equal(t, "IO error during read of players/a.yaml: permission denied", err.Error())
	assert.ErrorIs(t, err, base)

	var ioErr *pkgerrors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Operation)
}

func TestParseError(t *testing.T) {
	base := errors.New("unexpected end of JSON input")
	err := pkgerrors.WrapParse("json", "response", base)
	assert.Equal(t, "parse error in json file response: unexpected end of JSON input", err.Error())
	assert.ErrorIs(t, err, base)

	bare := pkgerrors.NewParseError("yaml", "", "bad indent", nil)
	assert.Equal(t, "yaml parse error: bad indent", bare.Error())
}

func TestTimeoutError(t *testing.T) {
	base := errors.New("context deadline exceeded")
	err := pkgerrors.NewTimeoutError("fetch ctf", "10s", base)
	assert.Equal(t, "operation fetch ctf timed out after 10s: context deadline exceeded", err.Error())
	assert.True(t, pkgerrors.IsTimeout(err))
	assert.ErrorIs(t, err, base)
	assert.False(t, pkgerrors.IsTimeout(base))

	bare := &pkgerrors.TimeoutError{Operation: "fetch tdm", Message: "no reply"}
	assert.Equal(t, "operation fetch tdm timed out: no reply", bare.Error())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	assert.NoError(t, pkgerrors.WrapParse("json", "x", nil))
	assert.NoError(t, pkgerrors.WrapResource("load", "config", "", nil))
}

func TestConfigError(t *testing.T) {
	base := errors.New("file missing")
	err := pkgerrors.NewConfigError("viper", "cannot read config", base)
	assert.Equal(t, "configuration error in viper: cannot read config", err.Error())
	assert.ErrorIs(t, err, base)
}
