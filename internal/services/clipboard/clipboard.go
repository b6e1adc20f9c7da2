// Package clipboard copies generated README content to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copier places generated document text on the system clipboard.
type Copier interface {
	CopyDocument(documentText string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard Service.
func NewService() *Service {
	return &Service{}
}

// CopyDocument writes the generated document to the system clipboard.
func (service *Service) CopyDocument(documentText string) error {
	return clipboard.WriteAll(documentText)
}

var _ Copier = (*Service)(nil)
