package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// chatCompletionsPath is the OpenAI-compatible completion endpoint; Groq
// exposes the same surface under its own base URL.
const chatCompletionsPath = "/chat/completions"

const authorizationHeaderName = "Authorization"
const authorizationBearerPrefix = "Bearer "

// chatMessage is a single role-tagged message in a chat-completions request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest is the request body for the chat completions API.
type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatCompletionChoice is a single completion choice.
type chatCompletionChoice struct {
	Message chatMessage `json:"message"`
}

// chatCompletionResponse is the raw response from the chat completions API.
type chatCompletionResponse struct {
	Choices []chatCompletionChoice `json:"choices"`
}

// chatClient implements Generator for OpenAI-compatible chat-completions
// providers. OpenAI and Groq share this client and differ only in base URL,
// credential, and model identifier.
type chatClient struct {
	backendName string
	baseURL     string
	apiKey      string
	model       string
	httpClient  *http.Client
}

func newChatClient(backendName string, baseURL string, apiKey string, model string, httpClient *http.Client) *chatClient {
	return &chatClient{
		backendName: backendName,
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		httpClient:  httpClient,
	}
}

// Name identifies the backend for logging.
func (client *chatClient) Name() string {
	return client.backendName
}

// Generate issues one blocking chat-completions request and extracts the
// first choice's message content.
func (client *chatClient) Generate(ctx context.Context, promptText string) (string, error) {
	requestBody := chatCompletionRequest{
		Model: client.model,
		Messages: []chatMessage{
			{Role: roleSystem, Content: systemInstruction()},
			{Role: roleUser, Content: promptText},
		},
	}
	encodedBody, marshalError := json.Marshal(requestBody)
	if marshalError != nil {
		return "", fmt.Errorf(errorRequestFailedFormat, client.backendName, marshalError)
	}

	request, requestError := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+chatCompletionsPath, bytes.NewReader(encodedBody))
	if requestError != nil {
		return "", fmt.Errorf(errorRequestFailedFormat, client.backendName, requestError)
	}
	request.Header.Set(contentTypeHeaderName, contentTypeJSON)
	request.Header.Set(authorizationHeaderName, authorizationBearerPrefix+client.apiKey)

	response, transportError := client.httpClient.Do(request)
	if transportError != nil {
		return "", fmt.Errorf(errorRequestFailedFormat, client.backendName, transportError)
	}
	responseBody, readError := readResponseBody(response)
	if readError != nil {
		return "", fmt.Errorf(errorRequestFailedFormat, client.backendName, readError)
	}
	if response.StatusCode != http.StatusOK {
		return "", statusError(client.backendName, response.StatusCode, responseBody)
	}

	var decodedResponse chatCompletionResponse
	if decodeError := json.Unmarshal(responseBody, &decodedResponse); decodeError != nil {
		return "", fmt.Errorf(errorDecodeResponseFormat, client.backendName, decodeError)
	}
	if len(decodedResponse.Choices) == 0 || decodedResponse.Choices[0].Message.Content == "" {
		return "", fmt.Errorf(errorEmptyCompletionFormat, client.backendName)
	}
	return decodedResponse.Choices[0].Message.Content, nil
}

var _ Generator = (*chatClient)(nil)
