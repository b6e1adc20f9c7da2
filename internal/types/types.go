// Package types defines every cross-package data structure used by the readmegen CLI.
package types

const (
	CommandGenerate = "generate"
	CommandScan     = "scan"

	BackendOpenAI = "openai"
	BackendGroq   = "groq"
	BackendGemini = "gemini"
	BackendOllama = "ollama"
)

// ValidatedDirectory is an absolute project directory that already passed existence checks.
type ValidatedDirectory struct {
	AbsolutePath string
}

// CollectedFile is one project file that survived filtering during the scan.
type CollectedFile struct {
	// RelativePath is the slash-separated path of the file relative to the scan root.
	RelativePath string
	// Content is the full textual content of the file.
	Content string
	// SizeBytes is the on-disk size of the file.
	SizeBytes int64
}

// ScanSummary captures aggregate information about one directory scan.
type ScanSummary struct {
	// Files is the number of files whose content was collected.
	Files int
	// Bytes is the total content size of the collected files.
	Bytes int64
	// Skipped counts files excluded for being binary, unreadable, or over budget.
	Skipped int
}

// GenerationResult pairs the cleaned model output with the backend that produced it.
type GenerationResult struct {
	Backend string
	Text    string
}
