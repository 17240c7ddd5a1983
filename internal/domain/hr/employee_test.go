package hr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployee_Lifecycle(t *testing.T) {
	hired := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	e, err := NewEmployee("t1", "u1", "emp-1", "Jane Doe", hired)
	require.NoError(t, err)
	assert.Equal(t, "EMP-1", e.Code)
	assert.Equal(t, EmployeeStatusActive, e.Status)

	require.NoError(t, e.Update("Jane Doe", "Jane@Corp.io", "Finance", "Analyst"))
	assert.Equal(t, "jane@corp.io", e.Email)

	assert.Error(t, e.Terminate(hired.Add(-24*time.Hour)))
	require.NoError(t, e.Terminate(hired.AddDate(1, 0, 0)))
	assert.Equal(t, EmployeeStatusTerminated, e.Status)
	assert.Error(t, e.Terminate(hired.AddDate(2, 0, 0)))
	assert.Error(t, e.Update("Jane", "", "", ""))
}

func TestNewEmployee_Validation(t *testing.T) {
	_, err := NewEmployee("t1", "u1", "", "Jane", time.Now())
	assert.Error(t, err)
	_, err = NewEmployee("t1", "u1", "E1", "", time.Now())
	assert.Error(t, err)
	_, err = NewEmployee("t1", "u1", "E1", "Jane", time.Time{})
	assert.Error(t, err)
}
