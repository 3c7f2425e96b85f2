package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldFlags(t *testing.T) {
	t.Parallel()

	t.Run("parses repeated labels", func(t *testing.T) {
		t.Parallel()

		values, err := parseFieldFlags([]string{"Region=EMEA", "Tier=gold", "Notes=a=b"})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"Region": "EMEA",
			"Tier":   "gold",
			"Notes":  "a=b",
		}, values)
	})

	t.Run("empty input stays nil", func(t *testing.T) {
		t.Parallel()

		values, err := parseFieldFlags(nil)
		require.NoError(t, err)
		assert.Nil(t, values)
	})

	t.Run("rejects entries without a label", func(t *testing.T) {
		t.Parallel()

		_, err := parseFieldFlags([]string{"no-separator"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFieldFormat)

		_, err = parseFieldFlags([]string{"=value"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFieldFormat)
	})
}

func TestStringFlag(t *testing.T) {
	t.Parallel()

	assert.Nil(t, stringFlag("ignored", false))

	value := stringFlag("", true)
	require.NotNil(t, value)
	assert.Empty(t, *value)

	value = stringFlag("set", true)
	require.NotNil(t, value)
	assert.Equal(t, "set", *value)
}
