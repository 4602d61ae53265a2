package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/homelist/internal/kv"
	"github.com/roach88/homelist/internal/testutil"
)

// createTestStore opens a seeded store on a fresh SQLite file with a manual
// clock and sequential ids.
func createTestStore(t *testing.T) (*Store, *kv.SQLite) {
	t.Helper()
	medium, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	s, err := Open(context.Background(), medium,
		WithClock(testutil.NewManualClock()),
		WithIDGenerator(testutil.NewSequentialIDs("id")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, medium
}

// failingKV is a kv.Store whose operations can be made to fail.
type failingKV struct {
	*kv.Memory
	failLoad bool
	failSave bool
}

var errMediumDown = errors.New("medium unavailable")

func (f *failingKV) Load(ctx context.Context, key string) ([]byte, error) {
	if f.failLoad {
		return nil, errMediumDown
	}
	return f.Memory.Load(ctx, key)
}

func (f *failingKV) Save(ctx context.Context, key string, value []byte) error {
	if f.failSave {
		return errMediumDown
	}
	return f.Memory.Save(ctx, key, value)
}
