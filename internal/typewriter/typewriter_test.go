package typewriter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepSingleShortPhrase(t *testing.T) {
	m := New([]string{"ab"}, DefaultTiming())

	texts := []string{m.Text()}
	for i := 0; i < 6; i++ {
		m.Step()
		if texts[len(texts)-1] != m.Text() {
			texts = append(texts, m.Text())
		}
	}

	assert.Equal(t, []string{"", "a", "ab", "a", "", "a"}, texts)
}

func TestStepDelaysFollowMode(t *testing.T) {
	timing := Timing{Type: 3 * time.Millisecond, Delete: 2 * time.Millisecond, Pause: 7 * time.Millisecond}
	m := New([]string{"ab"}, timing)

	assert.Equal(t, timing.Type, m.Delay())
	assert.Equal(t, timing.Type, m.Step()) // "a"
	assert.Equal(t, timing.Pause, m.Step())
	assert.Equal(t, PausingFull, m.Mode())
	assert.Equal(t, timing.Delete, m.Step())
	assert.Equal(t, Deleting, m.Mode())
	assert.Equal(t, "ab", m.Text(), "pause ends without deleting")
}

func TestStepInvariantAcrossPhrases(t *testing.T) {
	phrases := []string{"a Developer", "an Engineer", "", "a Freelancer", "日本語"}
	m := New(phrases, DefaultTiming())

	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		m.Step()
		idx := m.PhraseIndex()
		seen[idx] = true
		full := []rune(phrases[idx])

		require.GreaterOrEqual(t, m.CharCount(), 0)
		require.LessOrEqual(t, m.CharCount(), len(full))
		require.Equal(t, string(full[:m.CharCount()]), m.Text())
	}
	assert.Len(t, seen, len(phrases), "every phrase should come up")
}

func TestIdleMachine(t *testing.T) {
	m := New(nil, DefaultTiming())

	assert.True(t, m.Idle())
	assert.Equal(t, time.Duration(0), m.Step())
	assert.Equal(t, "", m.Text())

	called := false
	err := m.Run(context.Background(), func(string) { called = true })
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestRunEmitsChangesAndStops(t *testing.T) {
	m := New([]string{"ab"}, Timing{Type: time.Millisecond, Delete: time.Millisecond, Pause: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	texts := make(chan string, 64)
	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx, func(s string) { texts <- s })
	}()

	var got []string
	for len(got) < 6 {
		select {
		case s := <-texts:
			got = append(got, s)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out, got %q", got)
		}
	}
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	assert.Equal(t, []string{"", "a", "ab", "a", "", "a"}, got)

	// Drain: nothing is emitted once Run has returned.
	pending := len(texts)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, pending, len(texts))
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "typing", Typing.String())
	assert.Equal(t, "pausing", PausingFull.String())
	assert.Equal(t, "deleting", Deleting.String())
}
