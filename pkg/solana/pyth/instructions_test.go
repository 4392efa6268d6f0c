package pyth

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramKey(t *testing.T) {
	require.Len(t, []byte(ProgramKey), 32)
	assert.Equal(t, "rec5EKMGg6MxZYaMdyBfgwp4d5rB9T1VQH5pJv5LtFJ", base58.Encode(ProgramKey))
}

func TestDerivedAddresses(t *testing.T) {
	config, err := GetConfigAddress()
	require.NoError(t, err)
	require.Len(t, []byte(config), 32)

	treasury0, err := GetTreasuryAddress(0)
	require.NoError(t, err)
	treasury1, err := GetTreasuryAddress(1)
	require.NoError(t, err)
	assert.NotEqual(t, treasury0, treasury1)
}
