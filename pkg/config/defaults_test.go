package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("STUDIO_TEST_INT", "42")
	t.Setenv("STUDIO_TEST_BAD_INT", "forty")
	t.Setenv("STUDIO_TEST_BOOL", "false")
	t.Setenv("STUDIO_TEST_DURATION", "2m")
	t.Setenv("STUDIO_TEST_LIST", " a, ,b ")

	assert.Equal(t, 42, getEnvInt("STUDIO_TEST_INT", 1))
	assert.Equal(t, 1, getEnvInt("STUDIO_TEST_BAD_INT", 1))
	assert.False(t, getEnvBool("STUDIO_TEST_BOOL", true))
	assert.Equal(t, 2*time.Minute, getEnvDuration("STUDIO_TEST_DURATION", time.Second))
	assert.Equal(t, []string{"a", "b"}, getEnvList("STUDIO_TEST_LIST", nil))
	assert.Equal(t, "fallback", getEnvString("STUDIO_TEST_MISSING", "fallback"))
}

func TestLoadHistoryCapacities(t *testing.T) {
	// registered first so it runs after the variables are restored
	t.Cleanup(Load)
	t.Setenv("HISTORY_STRUCTURE_CAPACITY", "4")
	t.Setenv("HISTORY_DETAIL_CAPACITY", "")
	Load()

	assert.Equal(t, 4, HistoryStructureCapacity)
	assert.Equal(t, 20, HistoryDetailCapacity)
}
