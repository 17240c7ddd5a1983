package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	tn, err := NewTenant(" Acme-Corp ", "Acme Corporation")
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", tn.Code)
	assert.True(t, tn.IsActive())
	require.Len(t, tn.GetDomainEvents(), 1)

	_, err = NewTenant("a", "Too short")
	assert.Error(t, err)
	_, err = NewTenant("acme corp", "Space")
	assert.Error(t, err)
	_, err = NewTenant("acme", "")
	assert.Error(t, err)
}

func TestTenant_Suspend(t *testing.T) {
	tn, err := NewTenant("acme", "Acme")
	require.NoError(t, err)

	require.NoError(t, tn.Suspend())
	assert.False(t, tn.IsActive())
	assert.Error(t, tn.Suspend())

	require.NoError(t, tn.Activate())
	assert.True(t, tn.IsActive())
	assert.Error(t, tn.Activate())
}
