package emit

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = input
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.body = string(data)
	return &manager.UploadOutput{}, nil
}

func TestS3EmitterPrefixKey(t *testing.T) {
	up := &fakeUploader{}
	e := &S3Emitter{Bucket: "chess", Key: "archives/", uploader: up}

	location, err := e.Emit(context.Background(), "hikaru_chess.com_games.pgn", []byte("1. e4 *"))
	require.NoError(t, err)
	assert.Equal(t, "s3://chess/archives/hikaru_chess.com_games.pgn", location)
	assert.Equal(t, "chess", aws.ToString(up.input.Bucket))
	assert.Equal(t, "archives/hikaru_chess.com_games.pgn", aws.ToString(up.input.Key))
	assert.Equal(t, pgnContentType, aws.ToString(up.input.ContentType))
	assert.Equal(t, "1. e4 *", up.body)
}

func TestS3EmitterExplicitKey(t *testing.T) {
	up := &fakeUploader{}
	e := &S3Emitter{Bucket: "chess", Key: "mine.pgn", uploader: up}
	location, err := e.Emit(context.Background(), "ignored.pgn", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "s3://chess/mine.pgn", location)
}

func TestS3EmitterUploadError(t *testing.T) {
	e := &S3Emitter{Bucket: "chess", uploader: &fakeUploader{err: errors.New("access denied")}}
	_, err := e.Emit(context.Background(), "a.pgn", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://chess/a.pgn")
	assert.Contains(t, err.Error(), "access denied")
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := parseS3URL("s3://b/k/x.pgn")
	require.NoError(t, err)
	assert.Equal(t, "b", bucket)
	assert.Equal(t, "k/x.pgn", key)

	bucket, key, err = parseS3URL("s3://b")
	require.NoError(t, err)
	assert.Equal(t, "b", bucket)
	assert.Empty(t, key)
}
