package gl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNilResolver(t *testing.T) {
	_, err := Load(nil)
	assert.ErrorIs(t, err, ErrNoResolver)
}

func TestLoadReportsEveryMissingSymbol(t *testing.T) {
	var asked []string
	_, err := Load(func(name string) uintptr {
		asked = append(asked, name)
		return 0
	})

	var missing *MissingProcsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, asked, missing.Names)
	assert.Contains(t, missing.Names, "glDrawElements")
	assert.Contains(t, missing.Names, "glGenVertexArrays")
	assert.Contains(t, err.Error(), "glUniformMatrix4fv")
}

func TestGostring(t *testing.T) {
	assert.Equal(t, "", gostring(nil))

	b := []byte("4.6 Mesa\x00trailing")
	assert.Equal(t, "4.6 Mesa", gostring(&b[0]))
}
