package activity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentNewestFirst(t *testing.T) {
	f := NewFeed(10)
	for i := 0; i < 3; i++ {
		f.Publish(Event{Kind: KindSystem, Message: fmt.Sprintf("e%d", i)})
	}

	got := f.Recent(0)
	require.Len(t, got, 3)
	assert.Equal(t, "e2", got[0].Message)
	assert.Equal(t, "e0", got[2].Message)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Time.IsZero())

	assert.Len(t, f.Recent(2), 2)
}

func TestRingOverwritesOldest(t *testing.T) {
	f := NewFeed(3)
	for i := 0; i < 5; i++ {
		f.Publish(Event{Message: fmt.Sprintf("e%d", i)})
	}

	got := f.Recent(10)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"e4", "e3", "e2"}, []string{got[0].Message, got[1].Message, got[2].Message})
}

func TestSeed(t *testing.T) {
	f := NewFeed(0)
	f.Seed()

	got := f.Recent(0)
	require.Len(t, got, 4)
	assert.Equal(t, "User login: john@example.com", got[0].Message)
	assert.Equal(t, "System maintenance scheduled", got[3].Message)
}

func TestSubscribe(t *testing.T) {
	f := NewFeed(5)
	_, ch, cancel := f.Subscribe()
	assert.Equal(t, 1, f.Subscribers())

	f.Publish(Event{Kind: KindLogin, Message: "hello"})

	select {
	case e := <-ch:
		assert.Equal(t, "hello", e.Message)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	cancel()
	assert.Equal(t, 0, f.Subscribers())
	_, open := <-ch
	assert.False(t, open)
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	f := NewFeed(5)
	_, _, cancel := f.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			f.Publish(Event{Message: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked")
	}
}
