package utils

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/imposter-project/imposter-gateway/pkg/logger"
)

// ErrPathEscapesRoot is returned when a path resolves outside its root directory
var ErrPathEscapesRoot = errors.New("path escapes root directory")

// ValidatePath joins path onto rootDir and ensures the result stays within
// rootDir. The returned path uses forward slashes.
func ValidatePath(path string, rootDir string) (string, error) {
	filePath := filepath.Clean(filepath.Join(rootDir, filepath.FromSlash(path)))

	rel, err := filepath.Rel(filepath.Clean(rootDir), filePath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		logger.Warnf("file path escapes root directory: %s", filePath)
		return "", fmt.Errorf("%w: %s", ErrPathEscapesRoot, path)
	}
	return filepath.ToSlash(filePath), nil
}
