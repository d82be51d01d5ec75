package system

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInstanceID(t *testing.T) {
	first := GenerateInstanceID()
	second := GenerateInstanceID()

	assert.NotEqual(t, first, second)
	assert.GreaterOrEqual(t, strings.Count(first, "-"), 2)
}
