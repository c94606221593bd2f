package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"user_id", 7, "jwt_secret", "abc", "Authorization", "Bearer x", "dangling"})

	assert.Equal(t, []interface{}{"user_id", 7, "jwt_secret", "[REDACTED]", "Authorization", "[REDACTED]", "dangling"}, out)
}

func TestNopLoggerIsUsable(t *testing.T) {
	l := NewNop().With("component", "test")
	l.Info("hello", "k", "v")
	l.Sync()
}
