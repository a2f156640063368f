package emit

import (
	"context"
	"strings"
)

// Emitter persists one finished archive and returns where it ended up.
type Emitter interface {
	Emit(ctx context.Context, name string, payload []byte) (string, error)
}

// New picks the emitter for an output destination: s3://bucket/key uploads,
// anything else is a local path (file or directory, empty for cwd).
func New(output, profile string) (Emitter, error) {
	if strings.HasPrefix(output, "s3://") {
		bucket, key, err := parseS3URL(output)
		if err != nil {
			return nil, err
		}
		return &S3Emitter{Bucket: bucket, Key: key, Profile: profile}, nil
	}
	return &FileEmitter{Path: output}, nil
}
