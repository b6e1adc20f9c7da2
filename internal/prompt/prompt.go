// Package prompt assembles the model request text from collected file content.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/okGus/readme-generation/internal/types"
)

// SystemInstruction is the fixed system message sent to every backend. It is
// identical for all providers; only the transport differs.
//
//go:embed system_instruction.txt
var SystemInstruction string

const (
	// promptHeader opens the serialized codebase section of the prompt.
	promptHeader = "Project Files:\n\n"
	// fileHeaderFormat labels each file with its path relative to the scan root.
	fileHeaderFormat = "--- File: %s ---\n"
	// codeFence wraps each file body so the model can tell content from headers.
	codeFence = "```"
	// emptyCodebaseMessage stands in for the codebase when nothing was collected.
	emptyCodebaseMessage = "No code content was read from the directory."
)

// Build concatenates the collected files into a single prompt string: a fixed
// header followed by one fenced block per file, in traversal order.
func Build(collectedFiles []types.CollectedFile) string {
	if len(collectedFiles) == 0 {
		return emptyCodebaseMessage
	}

	var promptBuilder strings.Builder
	promptBuilder.WriteString(promptHeader)
	for _, collectedFile := range collectedFiles {
		fmt.Fprintf(&promptBuilder, fileHeaderFormat, collectedFile.RelativePath)
		promptBuilder.WriteString(codeFence)
		promptBuilder.WriteString("\n")
		promptBuilder.WriteString(collectedFile.Content)
		promptBuilder.WriteString("\n")
		promptBuilder.WriteString(codeFence)
		promptBuilder.WriteString("\n\n")
	}
	return promptBuilder.String()
}
