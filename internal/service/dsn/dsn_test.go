package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("Empty Host", func(t *testing.T) {
		t.Setenv("DB_HOST", "")
		assert.Equal(t, "", FromEnv())
	})

	t.Run("Full DSN", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("DB_USER", "cards")
		t.Setenv("DB_PASS", "secret")
		t.Setenv("DB_NAME", "arena")
		assert.Equal(t, "host=localhost port=5432 user=cards password=secret dbname=arena sslmode=disable", FromEnv())
	})

	t.Run("E2E DSN", func(t *testing.T) {
		t.Setenv("DB_HOST_TEST", "db")
		t.Setenv("DB_PORT_TEST", "5433")
		t.Setenv("DB_USER_TEST", "u")
		t.Setenv("DB_PASS_TEST", "p")
		t.Setenv("DB_NAME_TEST", "test")
		assert.Equal(t, "host=db port=5433 user=u password=p dbname=test sslmode=disable", FromEnvE2E())
	})
}
