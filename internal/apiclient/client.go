package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/aita-go-api/internal/dto"
	"github.com/noah-isme/aita-go-api/internal/models"
)

const maxErrorBody = 4 << 10

// StatusError reports a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the AITA backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for baseURL. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// VerifyCredential exchanges an identity credential for the server's teacher profile.
func (c *Client) VerifyCredential(ctx context.Context, credential string) (models.Teacher, error) {
	var out dto.VerifyResponse
	if err := c.post(ctx, "/api/auth/verify", dto.VerifyRequest{Credential: credential}, &out); err != nil {
		return models.Teacher{}, err
	}
	return out.Teacher, nil
}

// Analyze requests feedback for an essay.
func (c *Client) Analyze(ctx context.Context, req dto.AnalyzeRequest) (models.AnalysisResult, error) {
	var out models.AnalysisResult
	if err := c.post(ctx, "/api/analyze", req, &out); err != nil {
		return models.AnalysisResult{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Correlation-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeStatusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeStatusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload dto.ErrorResponse
	message := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: message}
}
