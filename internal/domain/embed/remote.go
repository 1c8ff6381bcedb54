package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// remoteEncoder calls an embedding server exposing a pretrained sentence
// model as a batch text-to-vector endpoint.
type remoteEncoder struct {
	baseURL string
	model   string
	variant Variant
	dim     int
	client  *http.Client
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// newRemoteEncoder probes the server with a single input to verify the model
// is servable and to learn its output dimensionality.
func newRemoteEncoder(ctx context.Context, baseURL, model string, variant Variant, timeout time.Duration) (*remoteEncoder, error) {
	enc := &remoteEncoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		variant: variant,
		client:  &http.Client{Timeout: timeout},
	}
	probe, err := enc.embed(ctx, []string{"dimension probe"})
	if err != nil {
		return nil, err
	}
	if len(probe) != 1 || len(probe[0]) == 0 {
		return nil, fmt.Errorf("%w: empty probe embedding from %q", ErrEmbedFailed, model)
	}
	enc.dim = len(probe[0])
	return enc, nil
}

func (e *remoteEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	rows, err := e.embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(texts) {
		return nil, fmt.Errorf("%w: got %d rows for %d inputs", ErrEmbedFailed, len(rows), len(texts))
	}
	for i, row := range rows {
		if len(row) != e.dim {
			return nil, fmt.Errorf("%w: row %d has dim %d, want %d", ErrDimMismatch, i, len(row), e.dim)
		}
		// Enforce unit norm locally regardless of server behavior.
		l2Normalize(row)
	}
	return rows, nil
}

func (e *remoteEncoder) Dim() int          { return e.dim }
func (e *remoteEncoder) Variant() Variant  { return e.variant }
func (e *remoteEncoder) ModelName() string { return e.model }

func (e *remoteEncoder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: server returned %s for model %q", ErrEmbedFailed, resp.Status, e.model)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedFailed, err)
	}
	return out.Embeddings, nil
}
