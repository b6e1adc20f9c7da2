package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/okGus/readme-generation/internal/types"
	"github.com/okGus/readme-generation/internal/utils"
)

const (
	warningAccessPathMessage     = "skipping inaccessible path"
	warningUnreadableFileMessage = "skipping unreadable file"
	warningBinaryFileMessage     = "skipping binary file"
	warningBudgetExceededMessage = "skipping file over prompt size budget"
)

// Collector walks a directory tree and gathers the textual content of every
// file that survives the exclusion rules. Unreadable and binary files are
// skipped with a warning; one bad file never aborts a whole-project scan.
type Collector struct {
	rules          Rules
	maxPromptBytes int64
	logger         *zap.Logger
}

// NewCollector constructs a Collector. A maxPromptBytes of zero disables the
// prompt size budget. A nil logger disables warning output.
func NewCollector(rules Rules, maxPromptBytes int64, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		rules:          rules,
		maxPromptBytes: maxPromptBytes,
		logger:         logger,
	}
}

// Collect walks rootDirectory depth-first and returns the collected files in
// traversal order together with a summary of the scan.
func (collector *Collector) Collect(rootDirectory string) ([]types.CollectedFile, types.ScanSummary, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectory)
	if absolutePathError != nil {
		return nil, types.ScanSummary{}, fmt.Errorf("failed to get absolute path for %s: %w", rootDirectory, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)

	var collectedFiles []types.CollectedFile
	var summary types.ScanSummary

	directoryWalkError := filepath.WalkDir(cleanedRootPath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			collector.logger.Warn(warningAccessPathMessage, zap.String("path", walkedPath), zap.Error(accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, cleanedRootPath)
		if relativePath == "." {
			return nil
		}

		if directoryEntry.IsDir() {
			if collector.rules.ExcludesDirectory(directoryEntry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if collector.rules.ExcludesFile(directoryEntry.Name()) {
			return nil
		}

		fileBytes, fileReadError := os.ReadFile(walkedPath)
		if fileReadError != nil {
			collector.logger.Warn(warningUnreadableFileMessage, zap.String("path", relativePath), zap.Error(fileReadError))
			summary.Skipped++
			return nil
		}
		if utils.IsBinary(fileBytes) {
			collector.logger.Warn(warningBinaryFileMessage,
				zap.String("path", relativePath),
				zap.String("mimeType", utils.DetectMimeType(walkedPath)))
			summary.Skipped++
			return nil
		}

		fileSize := int64(len(fileBytes))
		if collector.maxPromptBytes > 0 && summary.Bytes+fileSize > collector.maxPromptBytes {
			collector.logger.Warn(warningBudgetExceededMessage,
				zap.String("path", relativePath),
				zap.String("size", utils.FormatFileSize(fileSize)),
				zap.String("budget", utils.FormatFileSize(collector.maxPromptBytes)))
			summary.Skipped++
			return nil
		}

		collectedFiles = append(collectedFiles, types.CollectedFile{
			RelativePath: relativePath,
			Content:      string(fileBytes),
			SizeBytes:    fileSize,
		})
		summary.Files++
		summary.Bytes += fileSize
		return nil
	})
	if directoryWalkError != nil {
		return nil, types.ScanSummary{}, directoryWalkError
	}

	return collectedFiles, summary, nil
}
