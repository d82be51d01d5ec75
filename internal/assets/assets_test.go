package assets

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundle(t *testing.T) {
	data, err := fs.ReadFile(Bundle(), "www/index.html")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Gateway is running")

	_, err = fs.Stat(Bundle(), "www/robots.txt")
	assert.NoError(t, err)
}
