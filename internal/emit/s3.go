package emit

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	"github.com/tanq16/chessdl/internal/utils"
)

const pgnContentType = "application/x-chess-pgn"

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type S3Emitter struct {
	Bucket   string
	Key      string // a trailing slash (or empty) means "prefix", the archive name is appended
	Profile  string
	uploader uploader
}

func parseS3URL(url string) (string, string, error) {
	url = strings.TrimPrefix(url, "s3://")
	parts := strings.SplitN(url, "/", 2)
	if len(parts) < 1 || parts[0] == "" {
		return "", "", fmt.Errorf("invalid S3 URL format")
	}
	bucket := parts[0]
	key := ""
	if len(parts) > 1 {
		key = parts[1]
	}
	return bucket, key, nil
}

func newS3Uploader(ctx context.Context, profile string) (uploader, error) {
	opts := []func(*config.LoadOptions) error{config.WithRetryMode("adaptive")}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %v", err)
	}
	return manager.NewUploader(s3.NewFromConfig(cfg), func(u *manager.Uploader) {
		u.Concurrency = 1
	}), nil
}

func (e *S3Emitter) objectKey(name string) string {
	if e.Key == "" || strings.HasSuffix(e.Key, "/") {
		return e.Key + name
	}
	return e.Key
}

func (e *S3Emitter) Emit(ctx context.Context, name string, payload []byte) (string, error) {
	if e.uploader == nil {
		up, err := newS3Uploader(ctx, e.Profile)
		if err != nil {
			return "", err
		}
		e.uploader = up
	}
	key := e.objectKey(name)
	_, err := e.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(pgnContentType),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading to s3://%s/%s: %v", e.Bucket, key, err)
	}
	location := fmt.Sprintf("s3://%s/%s", e.Bucket, key)
	log.Info().Str("op", "emit/s3").Msgf("uploaded %s to %s", utils.FormatBytes(uint64(len(payload))), location)
	return location, nil
}
