package wormhole

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramKey(t *testing.T) {
	require.Len(t, []byte(ProgramKey), 32)
	assert.Equal(t, "worm2ZoG2kUd4vFXhvjh93UUH596ayRfgQ2MgjNMTth", base58.Encode(ProgramKey))
}

func TestGetGuardianSetAddress(t *testing.T) {
	first, err := GetGuardianSetAddress(4)
	require.NoError(t, err)
	require.Len(t, []byte(first), 32)

	second, err := GetGuardianSetAddress(5)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
