// Package scan walks a project directory and collects the source file content
// that feeds the README prompt.
package scan

import (
	"path/filepath"
	"strings"

	"github.com/okGus/readme-generation/internal/utils"
)

// hiddenEntryPrefix marks dotfiles and dot-directories, which are never collected.
const hiddenEntryPrefix = "."

// defaultExcludedDirectories lists directory names that are skipped at any depth:
// version-control metadata, dependency directories, build output, virtual
// environments, and tool caches.
var defaultExcludedDirectories = []string{
	".venv",
	"venv",
	"myenv",
	"__pycache__",
	"node_modules",
	"build",
	"dist",
	"target",
	".codecrafters",
	".next",
}

// defaultExcludedExtensions lists file extensions that never contain source text
// worth prompting with.
var defaultExcludedExtensions = []string{
	".o",
	".dll",
	".exe",
	".yml",
}

// defaultExcludedFilenames lists exact file names excluded from collection, mostly
// lock files and dependency manifests that inflate the prompt without adding signal.
var defaultExcludedFilenames = []string{
	"Cargo.lock",
	"Cargo.toml",
	"package-lock.json",
	"requirements.txt",
}

// Rules decides whether a directory entry is excluded from the scan.
// Matching is purely name-based; there is no content inspection.
type Rules struct {
	excludedDirectories map[string]struct{}
	excludedExtensions  map[string]struct{}
	excludedFilenames   map[string]struct{}
	extraPatterns       []string
}

// DefaultRules returns the built-in exclusion rules.
func DefaultRules() Rules {
	return Rules{
		excludedDirectories: stringSet(defaultExcludedDirectories),
		excludedExtensions:  stringSet(defaultExcludedExtensions),
		excludedFilenames:   stringSet(defaultExcludedFilenames),
	}
}

// WithPatterns returns a copy of the rules extended with additional name
// patterns evaluated with filepath.Match semantics against both directory and
// file names. Duplicate patterns are collapsed.
func (rules Rules) WithPatterns(patterns []string) Rules {
	extended := rules
	combined := append(append([]string{}, rules.extraPatterns...), patterns...)
	extended.extraPatterns = utils.DeduplicatePatterns(combined)
	return extended
}

// ExcludesDirectory reports whether a directory with the given name is skipped.
func (rules Rules) ExcludesDirectory(directoryName string) bool {
	if strings.HasPrefix(directoryName, hiddenEntryPrefix) {
		return true
	}
	if _, excluded := rules.excludedDirectories[directoryName]; excluded {
		return true
	}
	return rules.matchesExtraPattern(directoryName)
}

// ExcludesFile reports whether a file with the given name is skipped.
func (rules Rules) ExcludesFile(fileName string) bool {
	if strings.HasPrefix(fileName, hiddenEntryPrefix) {
		return true
	}
	if _, excluded := rules.excludedFilenames[fileName]; excluded {
		return true
	}
	extension := filepath.Ext(fileName)
	if _, excluded := rules.excludedExtensions[extension]; excluded {
		return true
	}
	return rules.matchesExtraPattern(fileName)
}

// matchesExtraPattern evaluates user-supplied exclusion patterns against an entry name.
func (rules Rules) matchesExtraPattern(entryName string) bool {
	for _, patternValue := range rules.extraPatterns {
		isMatched, matchError := filepath.Match(patternValue, entryName)
		if matchError == nil && isMatched {
			return true
		}
	}
	return false
}

// stringSet builds a membership set from a slice of names.
func stringSet(values []string) map[string]struct{} {
	result := make(map[string]struct{}, len(values))
	for _, value := range values {
		result[value] = struct{}{}
	}
	return result
}
