package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

const defaultHTTPTimeout = 30 * time.Second

// APIClient talks to the finance backend over its REST surface.
type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// APIOption configures an APIClient.
type APIOption func(*APIClient)

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) APIOption {
	return func(c *APIClient) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) APIOption {
	return func(c *APIClient) { c.http = hc }
}

// NewAPIClient creates a client for the backend rooted at baseURL.
func NewAPIClient(baseURL string, opts ...APIOption) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAll returns every stored transaction in backend order.
func (c *APIClient) FetchAll(ctx context.Context) ([]domain.Transaction, error) {
	var out []dto.TransactionResponse
	if err := c.doJSON(ctx, http.MethodGet, "/get_data", nil, &out); err != nil {
		return nil, err
	}
	return dto.ToDomainTransactionSlice(out), nil
}

// Add sends one record and returns the ID the backend stored it under.
// Records missing a date, description or amount are rejected locally.
func (c *APIClient) Add(ctx context.Context, t domain.Transaction) (string, error) {
	if err := t.RequireComplete(); err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	var out dto.StatusResponse
	if err := c.doJSON(ctx, http.MethodPost, "/add_transaction", dto.NewCreateTransactionRequest(t), &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return t.TransactionID, nil
	}
	return out.ID, nil
}

// Delete removes the transaction with the given ID.
func (c *APIClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Validationf("transaction id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, "/delete_transaction?id="+url.QueryEscape(id), nil, nil)
}

// Upload sends a CSV file and returns the rows the backend imported.
func (c *APIClient) Upload(ctx context.Context, filename string, data io.Reader) ([]domain.Transaction, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return nil, apperrors.Validationf("invalid file type. Only CSV files are allowed")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out []dto.TransactionResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return dto.ToDomainTransactionSlice(out), nil
}

// Chat relays a question plus the caller's transactions and returns the answer.
func (c *APIClient) Chat(ctx context.Context, question string, txns []domain.Transaction) (string, error) {
	req := dto.ChatRequest{
		Question:     question,
		Transactions: dto.ToListTransactionResponse(txns),
	}
	var out dto.ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat", req, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *APIClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *APIClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *APIClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrTransport, req.URL.Path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload dto.ErrorResponse
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
}
