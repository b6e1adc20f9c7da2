package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okGus/readme-generation/internal/types"
)

// ollamaChatPath is the chat endpoint of the local inference server.
const ollamaChatPath = "/api/chat"

// ollamaChatOptions carries inference parameters; NumCtx is the context window
// granted to the model for this request.
type ollamaChatOptions struct {
	NumCtx int `json:"num_ctx"`
}

// ollamaChatRequest is the request body for the local chat endpoint.
type ollamaChatRequest struct {
	Model    string            `json:"model"`
	Messages []chatMessage     `json:"messages"`
	Stream   bool              `json:"stream"`
	Options  ollamaChatOptions `json:"options"`
}

// ollamaChatResponse is the raw response from the local chat endpoint.
type ollamaChatResponse struct {
	Message chatMessage `json:"message"`
}

// ollamaClient implements Generator against a local Ollama server. It is the
// fallback backend when no hosted-provider credential is supplied.
type ollamaClient struct {
	host          string
	model         string
	contextWindow int
	httpClient    *http.Client
}

func newOllamaClient(host string, model string, contextWindow int, httpClient *http.Client) *ollamaClient {
	return &ollamaClient{
		host:          host,
		model:         model,
		contextWindow: contextWindow,
		httpClient:    httpClient,
	}
}

// Name identifies the backend for logging.
func (client *ollamaClient) Name() string {
	return types.BackendOllama
}

// Generate issues one blocking non-streaming chat request against the local server.
func (client *ollamaClient) Generate(ctx context.Context, promptText string) (string, error) {
	requestBody := ollamaChatRequest{
		Model: client.model,
		Messages: []chatMessage{
			{Role: roleSystem, Content: systemInstruction()},
			{Role: roleUser, Content: promptText},
		},
		Stream:  false,
		Options: ollamaChatOptions{NumCtx: client.contextWindow},
	}
	encodedBody, marshalError := json.Marshal(requestBody)
	if marshalError != nil {
		return "", fmt.Errorf(errorRequestFailedFormat, types.BackendOllama, marshalError)
	}

	request, requestError := http.NewRequestWithContext(ctx, http.MethodPost, client.host+ollamaChatPath, bytes.NewReader(encodedBody))
	if requestError != nil {
		return "", fmt.Errorf(errorRequestFailedFormat, types.BackendOllama, requestError)
	}
	request.Header.Set(contentTypeHeaderName, contentTypeJSON)

	response, transportError := client.httpClient.Do(request)
	if transportError != nil {
		return "", fmt.Errorf(errorRequestFailedFormat, types.BackendOllama, transportError)
	}
	responseBody, readError := readResponseBody(response)
	if readError != nil {
		return "", fmt.Errorf(errorRequestFailedFormat, types.BackendOllama, readError)
	}
	if response.StatusCode != http.StatusOK {
		return "", statusError(types.BackendOllama, response.StatusCode, responseBody)
	}

	var decodedResponse ollamaChatResponse
	if decodeError := json.Unmarshal(responseBody, &decodedResponse); decodeError != nil {
		return "", fmt.Errorf(errorDecodeResponseFormat, types.BackendOllama, decodeError)
	}
	if decodedResponse.Message.Content == "" {
		return "", fmt.Errorf(errorEmptyCompletionFormat, types.BackendOllama)
	}
	return decodedResponse.Message.Content, nil
}

var _ Generator = (*ollamaClient)(nil)
