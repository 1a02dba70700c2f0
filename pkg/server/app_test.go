package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTracker struct {
	loadErr error
	runErr  error
	block   bool
	runs    atomic.Int32
}

func (f *fakeTracker) Load(context.Context) error { return f.loadErr }

func (f *fakeTracker) Run(ctx context.Context) error {
	f.runs.Add(1)
	if f.block {
		<-ctx.Done()
	}
	return f.runErr
}

type closer struct{ closed atomic.Bool }

func (c *closer) Close() error {
	c.closed.Store(true)
	return nil
}

func TestRunReturnsWhenTrackerFinishes(t *testing.T) {
	tr := &fakeTracker{}
	c := &closer{}
	app := New(nil, tr, nil, Closers{c})

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, int32(1), tr.runs.Load())
	assert.True(t, c.closed.Load())
}

func TestRunFailsOnPortfolioLoad(t *testing.T) {
	tr := &fakeTracker{loadErr: errors.New("no such file")}
	c := &closer{}
	app := New(nil, tr, nil, Closers{c})

	err := app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such file")
	assert.Zero(t, tr.runs.Load())
	assert.True(t, c.closed.Load())
}

func TestRunStopsOnCancel(t *testing.T) {
	tr := &fakeTracker{block: true}
	app := New(nil, tr, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRunReportsTrackerError(t *testing.T) {
	tr := &fakeTracker{runErr: errors.New("boom")}
	app := New(nil, tr, nil, nil)

	err := app.Run(context.Background())
	assert.EqualError(t, err, "boom")
}
