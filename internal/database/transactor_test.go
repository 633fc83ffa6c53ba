package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectRunsOnce(t *testing.T) {
	calls := 0
	err := Direct.WithinTransaction(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDirectReturnsError(t *testing.T) {
	boom := errors.New("boom")
	err := Direct.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}
