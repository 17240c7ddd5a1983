package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	c, err := NewCustomer("t1", "u1", "cus-202401-00001", " Acme ")
	require.NoError(t, err)
	assert.Equal(t, "CUS-202401-00001", c.Code)
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, CustomerStatusLead, c.Status)
	assert.True(t, c.IsOwnedBy("u1"))

	_, err = NewCustomer("t1", "u1", "", "Acme")
	assert.Error(t, err)
	_, err = NewCustomer("t1", "u1", "C1", "  ")
	assert.Error(t, err)
}

func TestCustomer_Lifecycle(t *testing.T) {
	c, err := NewCustomer("t1", "u1", "C1", "Acme")
	require.NoError(t, err)

	assert.Error(t, c.Deactivate(), "leads cannot be deactivated")
	require.NoError(t, c.Activate())
	assert.Error(t, c.Activate())
	require.NoError(t, c.Deactivate())
	assert.Equal(t, CustomerStatusInactive, c.Status)
	require.NoError(t, c.Activate())
}

func TestCustomer_Update(t *testing.T) {
	c, err := NewCustomer("t1", "u1", "C1", "Acme")
	require.NoError(t, err)
	v := c.Version

	require.NoError(t, c.Update("Acme Ltd", "Sales@Acme.io", "+1 555", "vip"))
	assert.Equal(t, "sales@acme.io", c.Email)
	assert.Equal(t, v+1, c.Version)

	assert.Error(t, c.Update("Acme", "bad", "", ""))
}
