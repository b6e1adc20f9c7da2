package utils_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/okGus/readme-generation/internal/utils"
)

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			patterns: []string{"a", "b", "a"},
			expected: []string{"a", "b"},
		},
		{
			testName: "keeps unique",
			patterns: []string{"x", "y"},
			expected: []string{"x", "y"},
		},
		{
			testName: "empty input",
			patterns: nil,
			expected: []string{},
		},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(subTest *testing.T) {
			result := utils.DeduplicatePatterns(testCase.patterns)
			if !reflect.DeepEqual(result, testCase.expected) {
				subTest.Fatalf("expected %v, got %v", testCase.expected, result)
			}
		})
	}
}

// TestRelativePathOrSelf verifies relative path calculation against a root.
func TestRelativePathOrSelf(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	nestedPath := filepath.Join(rootDirectory, "pkg", "main.py")

	if result := utils.RelativePathOrSelf(rootDirectory, rootDirectory); result != "." {
		testingInstance.Fatalf("expected '.', got %q", result)
	}
	if result := utils.RelativePathOrSelf(nestedPath, rootDirectory); result != "pkg/main.py" {
		testingInstance.Fatalf("expected pkg/main.py, got %q", result)
	}
}

// TestIsBinary verifies binary detection for text, NUL-containing, and empty data.
func TestIsBinary(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		data     []byte
		expected bool
	}{
		{testName: "empty", data: nil, expected: false},
		{testName: "plain text", data: []byte("hello readme"), expected: false},
		{testName: "nul byte", data: []byte{0x00, 0x01}, expected: true},
		{testName: "invalid utf8", data: []byte{0xff, 0xfe, 0xfd}, expected: true},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(subTest *testing.T) {
			if result := utils.IsBinary(testCase.data); result != testCase.expected {
				subTest.Fatalf("expected %v, got %v", testCase.expected, result)
			}
		})
	}
}

// TestDetectMimeType verifies MIME detection and the unknown fallback.
func TestDetectMimeType(testingInstance *testing.T) {
	tempDirectory := testingInstance.TempDir()
	textPath := filepath.Join(tempDirectory, "sample.txt")
	if writeError := os.WriteFile(textPath, []byte("plain text"), 0o600); writeError != nil {
		testingInstance.Fatalf("write sample file: %v", writeError)
	}

	mimeType := utils.DetectMimeType(textPath)
	if mimeType != "text/plain; charset=utf-8" {
		testingInstance.Fatalf("expected text/plain mime type, got %q", mimeType)
	}

	missingPath := filepath.Join(tempDirectory, "missing.txt")
	if result := utils.DetectMimeType(missingPath); result != utils.UnknownMimeType {
		testingInstance.Fatalf("expected unknown mime type for missing file, got %q", result)
	}
}

// TestFormatFileSize verifies human-readable size formatting.
func TestFormatFileSize(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		bytes    int64
		expected string
	}{
		{testName: "negative", bytes: -1, expected: "0b"},
		{testName: "zero", bytes: 0, expected: "0b"},
		{testName: "bytes", bytes: 512, expected: "512b"},
		{testName: "one kilobyte", bytes: 1024, expected: "1kb"},
		{testName: "fractional kilobyte", bytes: 1536, expected: "1.5kb"},
		{testName: "ten megabytes", bytes: 10 * 1024 * 1024, expected: "10mb"},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(subTest *testing.T) {
			result := utils.FormatFileSize(testCase.bytes)
			if result != testCase.expected {
				subTest.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}
