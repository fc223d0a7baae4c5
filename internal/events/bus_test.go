package events

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Change, n int) []Change {
	t.Helper()
	var got []Change
	timeout := time.After(2 * time.Second)
	for len(got) < n {
		select {
		case c, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed after %d of %d changes", len(got), n)
			}
			got = append(got, c)
		case <-timeout:
			t.Fatalf("timed out after %d of %d changes", len(got), n)
		}
	}
	return got
}

func TestBus_publishSubscribe(t *testing.T) {
	bus := NewBus(8)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	at := time.Now().UnixMilli()
	require.NoError(t, bus.Publish(ctx, Change{Topic: TopicNotebooks, Revision: 1, Op: OpAddNote, NotebookID: "nb", NoteID: "n", At: at}))
	require.NoError(t, bus.Publish(ctx, Change{Topic: TopicSettings, Revision: 2, Op: OpDarkMode, At: at}))

	got := receive(t, ch, 2)
	sort.Slice(got, func(i, j int) bool { return got[i].Revision < got[j].Revision })

	assert.Equal(t, Change{Topic: TopicNotebooks, Revision: 1, Op: OpAddNote, NotebookID: "nb", NoteID: "n", At: at}, got[0])
	assert.Equal(t, TopicSettings, got[1].Topic)
	assert.Equal(t, OpDarkMode, got[1].Op)
	assert.Equal(t, at, got[1].Time().UnixMilli())
}

func TestBus_topicFilter(t *testing.T) {
	bus := NewBus(8)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx, TopicSettings)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, Change{Topic: TopicNotebooks, Revision: 1}))
	require.NoError(t, bus.Publish(ctx, Change{Topic: TopicSettings, Revision: 2}))

	got := receive(t, ch, 1)
	assert.Equal(t, uint64(2), got[0].Revision)

	select {
	case c := <-ch:
		t.Errorf("unexpected change %+v", c)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_publishWithoutTopic(t *testing.T) {
	bus := NewBus(0)
	defer bus.Close()
	assert.Error(t, bus.Publish(context.Background(), Change{Revision: 1}))
}

func TestBus_closeEndsSubscriptions(t *testing.T) {
	bus := NewBus(1)

	ch, err := bus.Subscribe(context.Background())
	require.NoError(t, err)
	require.NoError(t, bus.Close())

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}
}
