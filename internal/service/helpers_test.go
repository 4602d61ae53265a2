package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/homelist/internal/kv"
	"github.com/roach88/homelist/internal/store"
	"github.com/roach88/homelist/internal/testutil"
)

// testEnv is a seeded store with services, a manual clock and a notifier
// that records every reset link.
type testEnv struct {
	svc      *Services
	store    *store.Store
	clock    *testutil.ManualClock
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	clock := testutil.NewManualClock()
	st, err := store.Open(context.Background(), kv.NewMemory(),
		store.WithClock(clock),
		store.WithIDGenerator(testutil.NewSequentialIDs("id")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	n := &recordingNotifier{}
	opts = append([]Option{WithLatencyScale(0), WithResetNotifier(n)}, opts...)
	return &testEnv{
		svc:      New(st, opts...),
		store:    st,
		clock:    clock,
		notifier: n,
	}
}

type sentLink struct {
	Email string
	Link  string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentLink
}

func (r *recordingNotifier) NotifyPasswordReset(_ context.Context, email, link string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentLink{Email: email, Link: link})
	return nil
}

func (r *recordingNotifier) Sent() []sentLink {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentLink(nil), r.sent...)
}

func ptr[T any](v T) *T { return &v }
