package indexclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
)

// TransientError marks a delivery failure worth retrying: network trouble
// or a 5xx from the index service.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Client communicates with the embedding/indexing service HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	batchSize  int
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		batchSize: 50,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ChunkRecord is a single chunk in a PUT /documents/{doc}/chunks batch.
type ChunkRecord struct {
	Text          string            `json:"text"`
	Level         int               `json:"level"`
	Metadata      map[string]string `json:"metadata"`
	ParentArticle string            `json:"parent_article,omitempty"`
}

// PushChunks replaces the indexed chunks for a document. Chunks are sent
// in batches; the first batch carries replace=true so stale chunks from a
// previous version of the document are dropped server-side.
func (c *Client) PushChunks(ctx context.Context, docName string, chunks []normdoc.Chunk) error {
	records := make([]ChunkRecord, len(chunks))
	for i, ch := range chunks {
		records[i] = ChunkRecord{
			Text:          ch.Text,
			Level:         ch.Level,
			Metadata:      ch.Metadata.Map(),
			ParentArticle: ch.ParentArticle,
		}
	}

	for start := 0; start < len(records); start += c.batchSize {
		end := min(start+c.batchSize, len(records))
		if err := c.putBatch(ctx, docName, records[start:end], start == 0); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) putBatch(ctx context.Context, docName string, batch []ChunkRecord, replace bool) error {
	payload := struct {
		Replace bool          `json:"replace"`
		Chunks  []ChunkRecord `json:"chunks"`
	}{Replace: replace, Chunks: batch}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal chunk batch: %w", err)
	}

	u := c.baseURL + "/documents/" + url.PathEscape(docName) + "/chunks"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &TransientError{Err: fmt.Errorf("push chunks: %w", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("push chunks %s: status %d: %s", docName, resp.StatusCode, string(respBody))
		if resp.StatusCode >= 500 {
			return &TransientError{Err: err}
		}
		return err
	}
	return nil
}

// DeleteDocument removes all indexed chunks for a document.
func (c *Client) DeleteDocument(ctx context.Context, docName string) error {
	u := c.baseURL + "/documents/" + url.PathEscape(docName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("delete document %s: status %d: %s", docName, resp.StatusCode, string(respBody))
	}
	return nil
}

// Close releases any resources (currently a no-op).
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
