package latest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketCurrent(t *testing.T) {
	var s Sequence
	first := s.Begin()
	assert.True(t, first.Current())

	second := s.Begin()
	assert.False(t, first.Current())
	assert.True(t, second.Current())
	assert.Greater(t, second.ID(), first.ID())

	assert.False(t, Ticket{}.Current())
}

func TestDoDiscardsSupersededResult(t *testing.T) {
	var s Sequence
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := Do(context.Background(), &s, func(context.Context) (string, error) {
			close(started)
			<-release
			return "old", nil
		})
		done <- err
	}()

	<-started
	v, err := Do(context.Background(), &s, func(context.Context) (string, error) { return "new", nil })
	require.NoError(t, err)
	assert.Equal(t, "new", v)

	close(release)
	assert.ErrorIs(t, <-done, ErrStale)
}

func TestDoPassesThroughError(t *testing.T) {
	var s Sequence
	boom := assert.AnError
	_, err := Do(context.Background(), &s, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}
