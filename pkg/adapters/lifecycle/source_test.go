package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/foodtracker/pkg/adapters/lifecycle"
	"github.com/aretw0/foodtracker/pkg/core"
)

func TestSource_ForwardsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 2)
	in <- core.Event{Type: core.EventAdd, Index: 3, Count: 4}
	in <- core.Event{Type: core.EventSave, Index: -1, Count: 4}
	close(in)

	src := lifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))

	var got []string
	for e := range src.Events() {
		got = append(got, e.String())
	}
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "ADD")
	assert.Contains(t, got[1], "SAVE")
}

func TestSource_FiltersEventTypes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 3)
	in <- core.Event{Type: core.EventAdd}
	in <- core.Event{Type: core.EventExternalModify, Index: -1, Count: 2}
	in <- core.Event{Type: core.EventSave}
	close(in)

	src := lifecycle.NewSource(in, lifecycle.WithEventTypes(core.EventExternalModify))
	require.NoError(t, src.Start(ctx))

	var got []core.Event
	for e := range src.Events() {
		me, ok := e.(core.Event)
		require.True(t, ok)
		got = append(got, me)
	}
	require.Len(t, got, 1)
	assert.Equal(t, core.EventExternalModify, got[0].Type)
	assert.Equal(t, 2, got[0].Count)
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	in := make(chan core.Event)
	src := lifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))

	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source did not stop")
	}
}
