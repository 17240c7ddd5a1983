package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T) *User {
	u, err := NewUser("tenant-1", "Alice", "password123", RoleSales)
	require.NoError(t, err)
	return u
}

func TestNewUser(t *testing.T) {
	u := createTestUser(t)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, UserStatusActive, u.Status)
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.True(t, u.VerifyPassword("password123"))
	assert.False(t, u.VerifyPassword("wrong"))
	require.Len(t, u.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeUserCreated, u.GetDomainEvents()[0].EventType())

	tests := []struct {
		name     string
		username string
		password string
		role     RoleCode
	}{
		{"short username", "ab", "password123", RoleSales},
		{"bad username", "1abc", "password123", RoleSales},
		{"short password", "alice", "short", RoleSales},
		{"unknown role", "alice", "password123", RoleCode("root")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser("tenant-1", tt.username, tt.password, tt.role)
			assert.Error(t, err)
		})
	}
}

func TestUser_LoginLockout(t *testing.T) {
	u := createTestUser(t)

	assert.False(t, u.RecordLoginFailure(3, time.Minute))
	assert.False(t, u.RecordLoginFailure(3, time.Minute))
	assert.True(t, u.RecordLoginFailure(3, time.Minute))
	assert.True(t, u.IsLocked())
	assert.False(t, u.CanLogin())

	past := time.Now().Add(-time.Second)
	u.LockedUntil = &past
	assert.False(t, u.IsLocked())
	assert.True(t, u.CanLogin())

	u.RecordLoginSuccess("10.0.0.1")
	assert.Equal(t, UserStatusActive, u.Status)
	assert.Zero(t, u.FailedAttempts)
	assert.Equal(t, "10.0.0.1", u.LastLoginIP)
}

func TestUser_StatusTransitions(t *testing.T) {
	u := createTestUser(t)

	require.Error(t, u.Unlock())
	require.Error(t, u.Activate())

	require.NoError(t, u.Deactivate())
	assert.False(t, u.CanLogin())
	require.Error(t, u.Deactivate())

	require.NoError(t, u.Activate())
	assert.True(t, u.CanLogin())
}

func TestUser_ChangeRole(t *testing.T) {
	u := createTestUser(t)
	u.ClearDomainEvents()
	v := u.Version

	require.NoError(t, u.ChangeRole(RoleSales))
	assert.Equal(t, v, u.Version, "same role is a no-op")

	require.NoError(t, u.ChangeRole(RoleAccountant))
	assert.Equal(t, RoleAccountant, u.Role)
	assert.Equal(t, v+1, u.Version)
	require.Len(t, u.GetDomainEvents(), 1)

	assert.Error(t, u.ChangeRole("owner"))
}

func TestUser_SetEmail(t *testing.T) {
	u := createTestUser(t)
	require.NoError(t, u.SetEmail("Alice@Example.com"))
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Error(t, u.SetEmail("not-an-email"))
	require.NoError(t, u.SetEmail(""))
}
