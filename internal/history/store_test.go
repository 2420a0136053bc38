package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelcheck/pkg/types"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, s.Record(ctx, types.RunReport{
		RunID: "r1", Status: "success", StartedAt: base, FinishedAt: base.Add(time.Second),
		Models: 7, Formats: []string{"xml", "json"},
	}))
	require.NoError(t, s.Record(ctx, types.RunReport{
		RunID: "r2", Status: "failure", StartedAt: base.Add(time.Minute), FinishedAt: base.Add(time.Minute + time.Second),
		Models: 2, Formats: []string{"json"},
		Failures: []types.FailureReport{
			{Phase: "size", Key: "[x]", Label: "X", Kind: "not_found", Message: "model not found: [x]"},
			{Phase: "save", Key: "[1]", Label: "Model 1", Format: "json", Path: "out/model_1.json", Kind: "io_error", Message: "io"},
		},
	}))

	runs, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r2", runs[0].RunID)
	assert.Equal(t, 2, runs[0].Failures)
	assert.Equal(t, "json", runs[0].Formats)
	assert.Equal(t, "r1", runs[1].RunID)
	assert.Equal(t, "xml,json", runs[1].Formats)
	assert.Equal(t, 7, runs[1].Models)
	assert.Equal(t, 0, runs[1].Failures)
	assert.True(t, runs[1].StartedAt.Equal(base))

	limited, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	fs, err := s.Failures(ctx, "r2")
	require.NoError(t, err)
	require.Len(t, fs, 2)
	assert.Equal(t, "not_found", fs[0].Kind)
	assert.Equal(t, "out/model_1.json", fs[1].Path)

	none, err := s.Failures(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecordRejectsDuplicateAndEmptyID(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	rep := types.RunReport{RunID: "dup", Status: "success", StartedAt: time.Now(), FinishedAt: time.Now()}
	require.NoError(t, s.Record(ctx, rep))
	assert.Error(t, s.Record(ctx, rep))
	assert.Error(t, s.Record(ctx, types.RunReport{}))
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), types.RunReport{RunID: "keep", Status: "success", StartedAt: time.Now(), FinishedAt: time.Now()}))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	runs, err := s2.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "keep", runs[0].RunID)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
	var nilStore *Store
	assert.NoError(t, nilStore.Close())
	_, err = nilStore.List(context.Background(), 1)
	assert.Error(t, err)
}
