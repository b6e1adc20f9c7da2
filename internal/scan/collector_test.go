package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	firstSourceFileName    = "a.py"
	secondSourceFileName   = "b.py"
	excludedSourceFileName = "c.js"
	firstSourceContent     = "print('a')\n"
	secondSourceContent    = "print('b')\n"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content []byte) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, content, 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// makeTestDirectory creates a directory, failing the test on error.
func makeTestDirectory(testingHandle *testing.T, directoryPath string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(directoryPath, 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create %s: %v", directoryPath, makeDirError)
	}
}

// TestCollectGathersIncludedFilesOnly verifies collection of a small fixed tree:
// two source files survive while node_modules content leaves no trace.
func TestCollectGathersIncludedFilesOnly(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, filepath.Join(rootDirectory, firstSourceFileName), []byte(firstSourceContent))
	writeTestFile(testingInstance, filepath.Join(rootDirectory, secondSourceFileName), []byte(secondSourceContent))

	excludedDirectory := filepath.Join(rootDirectory, "node_modules")
	makeTestDirectory(testingInstance, excludedDirectory)
	writeTestFile(testingInstance, filepath.Join(excludedDirectory, excludedSourceFileName), []byte("module.exports = {}\n"))

	collector := NewCollector(DefaultRules(), 0, nil)
	collectedFiles, summary, collectError := collector.Collect(rootDirectory)
	if collectError != nil {
		testingInstance.Fatalf("Collect failed: %v", collectError)
	}

	if summary.Files != 2 {
		testingInstance.Fatalf("expected 2 collected files, got %d", summary.Files)
	}
	collectedPaths := make(map[string]string, len(collectedFiles))
	for _, collectedFile := range collectedFiles {
		collectedPaths[collectedFile.RelativePath] = collectedFile.Content
	}
	if collectedPaths[firstSourceFileName] != firstSourceContent {
		testingInstance.Fatalf("unexpected content for %s: %q", firstSourceFileName, collectedPaths[firstSourceFileName])
	}
	if collectedPaths[secondSourceFileName] != secondSourceContent {
		testingInstance.Fatalf("unexpected content for %s: %q", secondSourceFileName, collectedPaths[secondSourceFileName])
	}
	for collectedPath := range collectedPaths {
		if strings.Contains(collectedPath, excludedSourceFileName) {
			testingInstance.Fatalf("excluded file %s leaked into collection", collectedPath)
		}
	}
}

// TestCollectExcludedOnlyDirectoryIsEmpty verifies that a tree holding only
// excluded entries yields an empty collection.
func TestCollectExcludedOnlyDirectoryIsEmpty(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()

	buildDirectory := filepath.Join(rootDirectory, "build")
	makeTestDirectory(testingInstance, buildDirectory)
	writeTestFile(testingInstance, filepath.Join(buildDirectory, "artifact.txt"), []byte("built\n"))
	writeTestFile(testingInstance, filepath.Join(rootDirectory, "app.exe"), []byte("binary payload"))
	writeTestFile(testingInstance, filepath.Join(rootDirectory, ".hidden"), []byte("secret"))

	collector := NewCollector(DefaultRules(), 0, nil)
	collectedFiles, summary, collectError := collector.Collect(rootDirectory)
	if collectError != nil {
		testingInstance.Fatalf("Collect failed: %v", collectError)
	}
	if len(collectedFiles) != 0 {
		testingInstance.Fatalf("expected no collected files, got %v", collectedFiles)
	}
	if summary.Files != 0 || summary.Bytes != 0 {
		testingInstance.Fatalf("expected empty summary, got %+v", summary)
	}
}

// TestCollectSkipsNestedExcludedDirectories verifies exclusion applies at any nesting depth.
func TestCollectSkipsNestedExcludedDirectories(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()

	nestedExcluded := filepath.Join(rootDirectory, "services", "api", "__pycache__")
	makeTestDirectory(testingInstance, nestedExcluded)
	writeTestFile(testingInstance, filepath.Join(nestedExcluded, "cached.pyc"), []byte("cache"))
	writeTestFile(testingInstance, filepath.Join(rootDirectory, "services", "api", "handler.py"), []byte("def handle(): pass\n"))

	collector := NewCollector(DefaultRules(), 0, nil)
	collectedFiles, _, collectError := collector.Collect(rootDirectory)
	if collectError != nil {
		testingInstance.Fatalf("Collect failed: %v", collectError)
	}
	if len(collectedFiles) != 1 {
		testingInstance.Fatalf("expected exactly one collected file, got %d", len(collectedFiles))
	}
	if collectedFiles[0].RelativePath != "services/api/handler.py" {
		testingInstance.Fatalf("unexpected relative path %q", collectedFiles[0].RelativePath)
	}
}

// TestCollectSkipsBinaryFiles verifies binary content is skipped and counted.
func TestCollectSkipsBinaryFiles(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, filepath.Join(rootDirectory, "data.bin"), []byte{0x00, 0x01, 0x02, 0x03})
	writeTestFile(testingInstance, filepath.Join(rootDirectory, "main.py"), []byte("print('ok')\n"))

	collector := NewCollector(DefaultRules(), 0, nil)
	collectedFiles, summary, collectError := collector.Collect(rootDirectory)
	if collectError != nil {
		testingInstance.Fatalf("Collect failed: %v", collectError)
	}
	if len(collectedFiles) != 1 || collectedFiles[0].RelativePath != "main.py" {
		testingInstance.Fatalf("expected only main.py to be collected, got %v", collectedFiles)
	}
	if summary.Skipped != 1 {
		testingInstance.Fatalf("expected one skipped file, got %d", summary.Skipped)
	}
}

// TestCollectEnforcesPromptBudget verifies files over the remaining budget are skipped.
func TestCollectEnforcesPromptBudget(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	largeContent := strings.Repeat("x", 64)
	smallContent := "tiny\n"
	writeTestFile(testingInstance, filepath.Join(rootDirectory, "big.py"), []byte(largeContent))
	writeTestFile(testingInstance, filepath.Join(rootDirectory, "small.py"), []byte(smallContent))

	collector := NewCollector(DefaultRules(), 16, nil)
	collectedFiles, summary, collectError := collector.Collect(rootDirectory)
	if collectError != nil {
		testingInstance.Fatalf("Collect failed: %v", collectError)
	}
	if len(collectedFiles) != 1 || collectedFiles[0].RelativePath != "small.py" {
		testingInstance.Fatalf("expected only small.py within budget, got %v", collectedFiles)
	}
	if summary.Skipped != 1 {
		testingInstance.Fatalf("expected one skipped file, got %d", summary.Skipped)
	}
	if summary.Bytes != int64(len(smallContent)) {
		testingInstance.Fatalf("unexpected summary bytes %d", summary.Bytes)
	}
}

// TestCollectSkipsUnreadableFiles verifies a permission-denied file is skipped
// with the scan continuing over the remaining files.
func TestCollectSkipsUnreadableFiles(testingInstance *testing.T) {
	if os.Geteuid() == 0 {
		testingInstance.Skip("permission bits are not enforced for root")
	}
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, filepath.Join(rootDirectory, "readable.py"), []byte("print('ok')\n"))
	lockedFilePath := filepath.Join(rootDirectory, "locked.py")
	writeTestFile(testingInstance, lockedFilePath, []byte("print('secret')\n"))
	if chmodError := os.Chmod(lockedFilePath, 0o000); chmodError != nil {
		testingInstance.Fatalf("failed to chmod %s: %v", lockedFilePath, chmodError)
	}
	testingInstance.Cleanup(func() {
		os.Chmod(lockedFilePath, 0o644)
	})

	collector := NewCollector(DefaultRules(), 0, nil)
	collectedFiles, summary, collectError := collector.Collect(rootDirectory)
	if collectError != nil {
		testingInstance.Fatalf("Collect failed: %v", collectError)
	}
	if len(collectedFiles) != 1 || collectedFiles[0].RelativePath != "readable.py" {
		testingInstance.Fatalf("expected only readable.py to be collected, got %v", collectedFiles)
	}
	if summary.Files != 1 {
		testingInstance.Fatalf("expected one collected file, got %d", summary.Files)
	}
	if summary.Skipped != 1 {
		testingInstance.Fatalf("expected one skipped file, got %d", summary.Skipped)
	}
}
