package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(numbers ...string) func(context.Context) (string, error) {
	i := 0
	return func(context.Context) (string, error) {
		n := numbers[i]
		i++
		return n, nil
	}
}

func TestCreateNumbered(t *testing.T) {
	ctx := context.Background()

	t.Run("retries once on a taken number", func(t *testing.T) {
		var tried []string
		got, err := CreateNumbered(ctx, sequence("INV-202610-00007", "INV-202610-00008"), func(number string) (string, error) {
			tried = append(tried, number)
			if number == "INV-202610-00007" {
				return "", ErrAlreadyExists
			}
			return number, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "INV-202610-00008", got)
		assert.Equal(t, []string{"INV-202610-00007", "INV-202610-00008"}, tried)
	})

	t.Run("gives up after the second collision", func(t *testing.T) {
		calls := 0
		_, err := CreateNumbered(ctx, sequence("A", "B", "C"), func(string) (int, error) {
			calls++
			return 0, fmt.Errorf("save: %w", ErrAlreadyExists)
		})
		assert.ErrorIs(t, err, ErrAlreadyExists)
		assert.Equal(t, 2, calls)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		calls := 0
		_, err := CreateNumbered(ctx, sequence("A", "B"), func(string) (int, error) {
			calls++
			return 0, ErrConcurrencyConflict
		})
		assert.ErrorIs(t, err, ErrConcurrencyConflict)
		assert.Equal(t, 1, calls)
	})

	t.Run("number generation failure stops early", func(t *testing.T) {
		boom := errors.New("db down")
		_, err := CreateNumbered(ctx, func(context.Context) (string, error) { return "", boom }, func(string) (int, error) {
			t.Fatal("create must not run")
			return 0, nil
		})
		assert.ErrorIs(t, err, boom)
	})
}
