package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToastQueue_Expiry(t *testing.T) {
	q := NewToastQueue(5)
	q.Push(ToastSuccess, "old", testNow)
	q.Push(ToastInfo, "new", testNow.Add(2*time.Second))

	live := q.Pending(testNow.Add(3 * time.Second))

	require.Len(t, live, 1)
	assert.Equal(t, "new", live[0].Message)
}

func TestToastQueue_LimitDropsOldest(t *testing.T) {
	q := NewToastQueue(2)
	q.Push(ToastInfo, "a", testNow)
	q.Push(ToastInfo, "b", testNow)
	q.Push(ToastInfo, "c", testNow)

	live := q.Pending(testNow)
	require.Len(t, live, 2)
	assert.Equal(t, "b", live[0].Message)
	assert.Equal(t, "c", live[1].Message)
}

func TestToastQueue_DismissAndDrain(t *testing.T) {
	q := NewToastQueue(5)
	a := q.Push(ToastError, "a", testNow)
	q.Push(ToastWarning, "b", testNow)

	assert.NotEqual(t, "", a.ID)
	assert.True(t, q.Dismiss(a.ID))
	assert.False(t, q.Dismiss(a.ID))

	drained := q.Drain(testNow)
	require.Len(t, drained, 1)
	assert.Equal(t, "b", drained[0].Message)
	assert.Empty(t, q.Drain(testNow))
}

func TestToastQueue_DrainKeepsConcurrentPushes(t *testing.T) {
	const pushes = 200
	q := NewToastQueue(pushes)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < pushes; i++ {
			q.Push(ToastInfo, "job saved", testNow)
		}
	}()

	seen := make(map[string]int)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		for _, toast := range q.Drain(testNow) {
			seen[toast.ID]++
		}
	}

	assert.Len(t, seen, pushes)
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestMultiPublisher_JoinsErrors(t *testing.T) {
	ok := &recordingPublisher{}
	bad := &recordingPublisher{err: errors.New("offline")}

	err := MultiPublisher{ok, nil, bad}.Publish(context.Background(), Event{Type: EventToast})

	assert.EqualError(t, err, "offline")
	assert.Equal(t, []string{EventToast}, ok.types())
	assert.Equal(t, []string{EventToast}, bad.types())
}
