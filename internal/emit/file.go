package emit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/chessdl/internal/utils"
)

type FileEmitter struct {
	Path string
}

// target resolves the final file path; directories get the suggested name.
func (f *FileEmitter) target(name string) string {
	if f.Path == "" {
		return name
	}
	if strings.HasSuffix(f.Path, string(os.PathSeparator)) || strings.HasSuffix(f.Path, "/") {
		return filepath.Join(f.Path, name)
	}
	if info, err := os.Stat(f.Path); err == nil && info.IsDir() {
		return filepath.Join(f.Path, name)
	}
	return f.Path
}

func (f *FileEmitter) Emit(ctx context.Context, name string, payload []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	outputPath := f.target(name)
	if _, err := os.Stat(outputPath); err == nil {
		outputPath = utils.RenewOutputPath(outputPath)
	}
	tempDir := filepath.Join(filepath.Dir(outputPath), utils.TempDirName)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return "", fmt.Errorf("error creating temp directory: %v", err)
	}
	tempOutputPath := fmt.Sprintf("%s.part", filepath.Join(tempDir, filepath.Base(outputPath)))
	if err := os.WriteFile(tempOutputPath, payload, 0644); err != nil {
		return "", fmt.Errorf("error writing output file: %v", err)
	}
	if err := os.Rename(tempOutputPath, outputPath); err != nil {
		return "", fmt.Errorf("error renaming (finalizing) output file: %v", err)
	}
	if remaining, err := os.ReadDir(tempDir); err == nil && len(remaining) == 0 {
		os.Remove(tempDir)
	}
	log.Info().Str("op", "emit/file").Msgf("wrote %s to %s", utils.FormatBytes(uint64(len(payload))), outputPath)
	return outputPath, nil
}
