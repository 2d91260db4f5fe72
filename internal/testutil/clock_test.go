package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/atelier/internal/edit"
)

var _ edit.Sequencer = (*DeterministicClock)(nil)

func TestDeterministicClock_Sequence(t *testing.T) {
	clock := NewDeterministicClock()
	assert.Equal(t, int64(0), clock.Current())
	assert.Equal(t, int64(1), clock.Next())
	assert.Equal(t, int64(2), clock.Next())
	assert.Equal(t, int64(2), clock.Current())

	clock.Reset()
	assert.Equal(t, int64(1), clock.Next())
}

func TestDeterministicClock_StartAt(t *testing.T) {
	clock := NewDeterministicClockAt(41)
	assert.Equal(t, int64(42), clock.Next())
}

func TestDeterministicClock_ConcurrentNextIsUnique(t *testing.T) {
	clock := NewDeterministicClock()
	const n = 200

	var wg sync.WaitGroup
	results := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- clock.Next()
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for v := range results {
		require.False(t, seen[v], "duplicate seq %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, int64(n), clock.Current())
}

func TestRecordingNotifier(t *testing.T) {
	r := &RecordingNotifier{}
	r.Notify(edit.Notification{Level: edit.LevelSuccess, Title: "Text Updated"})
	r.Notify(edit.Notification{Level: edit.LevelError, Title: "Save Failed"})

	assert.Equal(t, []string{"Text Updated", "Save Failed"}, r.Titles())
	assert.Len(t, r.All(), 2)
}
