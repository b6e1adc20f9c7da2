package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okGus/readme-generation/internal/types"
)

const geminiAPIKeyHeaderName = "x-goog-api-key"

// geminiGenerateContentPathFormat expands to the generateContent endpoint for a model.
const geminiGenerateContentPathFormat = "/models/%s:generateContent"

// geminiPart is one text fragment in a Gemini content block.
type geminiPart struct {
	Text string `json:"text"`
}

// geminiContent is a role-tagged block of parts.
type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

// geminiGenerateRequest is the request body for the generateContent API.
type geminiGenerateRequest struct {
	SystemInstruction geminiContent   `json:"system_instruction"`
	Contents          []geminiContent `json:"contents"`
}

// geminiCandidate is one generated candidate in the response.
type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// geminiGenerateResponse is the raw response from the generateContent API.
type geminiGenerateResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

// geminiClient implements Generator for the Gemini REST API.
type geminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func newGeminiClient(baseURL string, apiKey string, model string, httpClient *http.Client) *geminiClient {
	return &geminiClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

// Name identifies the backend for logging.
func (client *geminiClient) Name() string {
	return types.BackendGemini
}

// Generate issues one blocking generateContent request and joins the text
// parts of the first candidate.
func (client *geminiClient) Generate(ctx context.Context, promptText string) (string, error) {
	requestBody := geminiGenerateRequest{
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: systemInstruction()}}},
		Contents: []geminiContent{
			{Role: roleUser, Parts: []geminiPart{{Text: promptText}}},
		},
	}
	encodedBody, marshalError := json.Marshal(requestBody)
	if marshalError != nil {
		return "", fmt.Errorf(errorRequestFailedFormat, types.BackendGemini, marshalError)
	}

	endpointURL := client.baseURL + fmt.Sprintf(geminiGenerateContentPathFormat, client.model)
	request, requestError := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(encodedBody))
	if requestError != nil {
		return "", fmt.Errorf(errorRequestFailedFormat, types.BackendGemini, requestError)
	}
	request.Header.Set(contentTypeHeaderName, contentTypeJSON)
	request.Header.Set(geminiAPIKeyHeaderName, client.apiKey)

	response, transportError := client.httpClient.Do(request)
	if transportError != nil {
		return "", fmt.Errorf(errorRequestFailedFormat, types.BackendGemini, transportError)
	}
	responseBody, readError := readResponseBody(response)
	if readError != nil {
		return "", fmt.Errorf(errorRequestFailedFormat, types.BackendGemini, readError)
	}
	if response.StatusCode != http.StatusOK {
		return "", statusError(types.BackendGemini, response.StatusCode, responseBody)
	}

	var decodedResponse geminiGenerateResponse
	if decodeError := json.Unmarshal(responseBody, &decodedResponse); decodeError != nil {
		return "", fmt.Errorf(errorDecodeResponseFormat, types.BackendGemini, decodeError)
	}
	if len(decodedResponse.Candidates) == 0 {
		return "", fmt.Errorf(errorEmptyCompletionFormat, types.BackendGemini)
	}
	var textBuilder strings.Builder
	for _, part := range decodedResponse.Candidates[0].Content.Parts {
		textBuilder.WriteString(part.Text)
	}
	if textBuilder.Len() == 0 {
		return "", fmt.Errorf(errorEmptyCompletionFormat, types.BackendGemini)
	}
	return textBuilder.String(), nil
}

var _ Generator = (*geminiClient)(nil)
