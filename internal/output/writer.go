// Package output cleans model responses and writes the generated README to disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// markdownFenceMarker is the bare fence models sometimes wrap the README in.
	markdownFenceMarker = "```"
	// markdownFenceLanguageTag is the tagged opening fence variant.
	markdownFenceLanguageTag = "```markdown"
	// generatedDirectoryName is the directory under the system temp directory
	// that receives output when no explicit path is supplied.
	generatedDirectoryName = "generated_readme"
	// markdownExtension suffixes generated output files.
	markdownExtension = ".md"

	errorCreateDirectoryFormat = "failed to create output directory %s: %w"
	errorWriteFileFormat       = "failed to write output file %s: %w"
)

// CleanResponse removes a markdown code fence wrapping the model response.
// The leading line must be a bare or markdown-tagged fence and the trailing
// line a bare fence; both are required before anything is stripped, so text
// without fences passes through unchanged and the operation is idempotent.
func CleanResponse(responseText string) string {
	if responseText == "" {
		return ""
	}
	lines := strings.Split(responseText, "\n")
	endsWithNewline := false
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		endsWithNewline = true
		lines = lines[:len(lines)-1]
	}
	if len(lines) < 2 {
		return responseText
	}

	firstLine := strings.TrimSpace(lines[0])
	lastLine := strings.TrimSpace(lines[len(lines)-1])
	startsWithFence := strings.EqualFold(firstLine, markdownFenceLanguageTag) || firstLine == markdownFenceMarker
	if !startsWithFence || !strings.EqualFold(lastLine, markdownFenceMarker) {
		return responseText
	}

	cleanedResponse := strings.Join(lines[1:len(lines)-1], "\n")
	if endsWithNewline && cleanedResponse != "" {
		cleanedResponse += "\n"
	}
	return cleanedResponse
}

// ResolveDestination returns the path the README is written to: the explicit
// path when supplied, otherwise a generated unique file under the system
// temporary directory.
func ResolveDestination(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	return filepath.Join(os.TempDir(), generatedDirectoryName, uuid.NewString()+markdownExtension)
}

// Write stores content at destinationPath, creating parent directories as
// needed. An existing file at the destination is overwritten without
// confirmation.
func Write(destinationPath string, content string) error {
	parentDirectory := filepath.Dir(destinationPath)
	if makeDirectoryError := os.MkdirAll(parentDirectory, 0o755); makeDirectoryError != nil {
		return fmt.Errorf(errorCreateDirectoryFormat, parentDirectory, makeDirectoryError)
	}
	if writeError := os.WriteFile(destinationPath, []byte(content), 0o644); writeError != nil {
		return fmt.Errorf(errorWriteFileFormat, destinationPath, writeError)
	}
	return nil
}
