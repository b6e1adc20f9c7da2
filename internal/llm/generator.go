// Package llm provides interchangeable text-generation backends. One backend
// is chosen at startup from the supplied credentials and held as a single
// Generator value for the rest of the run.
package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okGus/readme-generation/internal/prompt"
	"github.com/okGus/readme-generation/internal/types"
)

// Generator produces text from a prompt with exactly one blocking request.
type Generator interface {
	// Name identifies the backend for logging.
	Name() string
	// Generate sends the prompt and returns the generated text. Any transport
	// error, non-success status, or empty completion is returned as an error;
	// there is no retry.
	Generate(ctx context.Context, promptText string) (string, error)
}

// Credentials carries the optional API keys supplied for hosted providers.
type Credentials struct {
	OpenAIAPIKey string
	GroqAPIKey   string
	GeminiAPIKey string
}

// Options configures model identifiers and transport parameters for every backend.
type Options struct {
	OpenAIModel   string
	GroqModel     string
	GeminiModel   string
	OllamaModel   string
	OllamaHost    string
	ContextWindow int
	HTTPTimeout   time.Duration
}

// Default model identifiers and transport parameters per backend.
const (
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultGroqModel     = "llama-3.3-70b-versatile"
	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultOllamaModel   = "llama3.2:3b"
	DefaultOllamaHost    = "http://localhost:11434"
	DefaultContextWindow = 64000

	openAIBaseURL      = "https://api.openai.com/v1"
	groqBaseURL        = "https://api.groq.com/openai/v1"
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	defaultHTTPTimeout = 5 * time.Minute
)

const (
	roleSystem = "system"
	roleUser   = "user"

	contentTypeHeaderName = "Content-Type"
	contentTypeJSON       = "application/json"

	errorRequestFailedFormat   = "%s request failed: %w"
	errorStatusFormat          = "%s request returned status %d: %s"
	errorDecodeResponseFormat  = "%s response could not be decoded: %w"
	errorEmptyCompletionFormat = "%s response contained no generated text"

	// maxErrorBodyLength bounds provider error bodies quoted in returned errors.
	maxErrorBodyLength = 512
)

// withDefaults fills unset option fields with the package defaults.
func (options Options) withDefaults() Options {
	filled := options
	if filled.OpenAIModel == "" {
		filled.OpenAIModel = DefaultOpenAIModel
	}
	if filled.GroqModel == "" {
		filled.GroqModel = DefaultGroqModel
	}
	if filled.GeminiModel == "" {
		filled.GeminiModel = DefaultGeminiModel
	}
	if filled.OllamaModel == "" {
		filled.OllamaModel = DefaultOllamaModel
	}
	if filled.OllamaHost == "" {
		filled.OllamaHost = DefaultOllamaHost
	}
	if filled.ContextWindow <= 0 {
		filled.ContextWindow = DefaultContextWindow
	}
	if filled.HTTPTimeout <= 0 {
		filled.HTTPTimeout = defaultHTTPTimeout
	}
	return filled
}

// NewGenerator selects a backend by strict priority over the supplied
// credentials: OpenAI, then Groq, then Gemini, then the local Ollama server
// when no key is present.
func NewGenerator(credentials Credentials, options Options) Generator {
	resolvedOptions := options.withDefaults()
	httpClient := &http.Client{Timeout: resolvedOptions.HTTPTimeout}

	switch {
	case credentials.OpenAIAPIKey != "":
		return newChatClient(types.BackendOpenAI, openAIBaseURL, credentials.OpenAIAPIKey, resolvedOptions.OpenAIModel, httpClient)
	case credentials.GroqAPIKey != "":
		return newChatClient(types.BackendGroq, groqBaseURL, credentials.GroqAPIKey, resolvedOptions.GroqModel, httpClient)
	case credentials.GeminiAPIKey != "":
		return newGeminiClient(geminiBaseURL, credentials.GeminiAPIKey, resolvedOptions.GeminiModel, httpClient)
	default:
		return newOllamaClient(resolvedOptions.OllamaHost, resolvedOptions.OllamaModel, resolvedOptions.ContextWindow, httpClient)
	}
}

// readResponseBody drains and returns a response body for decoding or error reporting.
func readResponseBody(response *http.Response) ([]byte, error) {
	defer response.Body.Close()
	return io.ReadAll(response.Body)
}

// statusError builds the error returned for a non-success provider status.
func statusError(backendName string, statusCode int, body []byte) error {
	bodyText := string(body)
	if len(bodyText) > maxErrorBodyLength {
		bodyText = bodyText[:maxErrorBodyLength]
	}
	return fmt.Errorf(errorStatusFormat, backendName, statusCode, bodyText)
}

// systemInstruction returns the fixed instruction shared by every backend.
func systemInstruction() string {
	return prompt.SystemInstruction
}
