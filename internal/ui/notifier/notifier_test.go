package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Subscribe_Unsubscribe(t *testing.T) {
	n := New()

	sub := n.Subscribe()
	require.NotNil(t, sub)
	assert.Equal(t, 1, n.Len())

	n.Unsubscribe(sub)
	assert.Equal(t, 0, n.Len())

	// channel is closed
	_, ok := <-sub.C
	assert.False(t, ok)

	// second unsubscribe is a no-op
	assert.NotPanics(t, func() { n.Unsubscribe(sub) })
}

func TestNotifier_Publish(t *testing.T) {
	n := New()

	sub1 := n.Subscribe()
	sub2 := n.Subscribe()
	defer n.Unsubscribe(sub1)
	defer n.Unsubscribe(sub2)

	n.Publish(Event{PostID: 7})

	for i, sub := range []*Subscription{sub1, sub2} {
		select {
		case ev := <-sub.C:
			assert.Equal(t, int64(7), ev.PostID)
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d did not receive event", i)
		}
	}
}

func TestNotifier_Publish_NonBlocking(t *testing.T) {
	n := New()

	sub := n.Subscribe()
	defer n.Unsubscribe(sub)

	// fill the buffer
	for i := 0; i < bufferSize; i++ {
		n.Publish(Event{PostID: int64(i)})
	}

	done := make(chan struct{})
	go func() {
		n.Publish(Event{PostID: 99})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Publish blocked on full channel")
	}

	assert.Len(t, sub.C, bufferSize)
	first := <-sub.C
	assert.Equal(t, int64(0), first.PostID)
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	const numGoroutines = 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := n.Subscribe()
			n.Publish(Event{})
			n.Unsubscribe(sub)
		}()
	}

	wg.Wait()
	assert.Equal(t, 0, n.Len())
}
