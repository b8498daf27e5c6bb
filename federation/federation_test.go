package federation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	name, domain, err := Split("alice*example.org")
	assert.Nil(t, err)
	assert.Equal(t, "alice", name)
	assert.Equal(t, "example.org", domain)

	_, _, err = Split("alice")
	assert.NotNil(t, err)

	_, _, err = Split("*example.org")
	assert.NotNil(t, err)

	_, _, err = Split("alice*")
	assert.NotNil(t, err)
}
