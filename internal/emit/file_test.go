package emit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/chessdl/internal/utils"
)

func TestFileEmitterIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	e := &FileEmitter{Path: dir}

	location, err := e.Emit(context.Background(), "a_lichess_games.pgn", []byte("1. e4 *"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a_lichess_games.pgn"), location)
	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "1. e4 *", string(data))
	assert.NoDirExists(t, filepath.Join(dir, utils.TempDirName))
}

func TestFileEmitterRenewsExistingPath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "games.pgn")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0644))
	e := &FileEmitter{Path: target}

	location, err := e.Emit(context.Background(), "ignored.pgn", []byte("new"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "games-(1).pgn"), location)
	old, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
}

func TestFileEmitterCancelledLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&FileEmitter{Path: dir + "/"}).Emit(ctx, "x.pgn", []byte("data"))
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "x.pgn"))
}

func TestNewPicksEmitter(t *testing.T) {
	e, err := New("s3://bucket/archives/", "work")
	require.NoError(t, err)
	s3e, ok := e.(*S3Emitter)
	require.True(t, ok)
	assert.Equal(t, "bucket", s3e.Bucket)
	assert.Equal(t, "archives/", s3e.Key)
	assert.Equal(t, "work", s3e.Profile)

	e, err = New("out/games.pgn", "")
	require.NoError(t, err)
	assert.IsType(t, &FileEmitter{}, e)

	_, err = New("s3://", "")
	assert.Error(t, err)
}
