package drink_ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	"github.com/KirkDiggler/barcrew/internal/models"
)

// HTTPConfig holds configuration for the API-backed ledger
type HTTPConfig struct {
	// BaseURL is the API root, without the /v1 prefix
	BaseURL string

	// Token is the member's bearer token. The API takes the member from it,
	// so the UserID fields of the inputs are not sent.
	Token string

	// Client defaults to a client with a 10s timeout
	Client *http.Client
}

type httpRepository struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTP creates a ledger that talks to the barcrew API instead of Redis.
// It is what a member's device session writes through.
func NewHTTP(cfg *HTTPConfig) (*httpRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL cannot be empty")
	}
	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &httpRepository{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  client,
	}, nil
}

type apiError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type apiSnapshot struct {
	RunID     string          `json:"runId"`
	StartedAt time.Time       `json:"startedAt"`
	Snapshot  models.Snapshot `json:"snapshot"`
	Total     int             `json:"total"`
}

type apiDrink struct {
	RunID         string `json:"runId"`
	CategoryID    string `json:"categoryId"`
	VariationName string `json:"variationName"`
	Delta         int    `json:"delta"`
	EventID       string `json:"eventId"`
}

type apiDrinkResult struct {
	Count          int  `json:"count"`
	RunTotal       int  `json:"runTotal"`
	RunTotalBefore int  `json:"runTotalBefore"`
	Duplicate      bool `json:"duplicate"`
}

// StartRun asks the API to start runID. The server stamps the start time.
func (r *httpRepository) StartRun(ctx context.Context, input *StartRunInput) error {
	if input == nil || input.RunID == "" {
		return apperr.Validation("run ID cannot be empty")
	}

	body := map[string]string{"runId": input.RunID}
	if err := r.do(ctx, http.MethodPost, "/v1/runs", body, nil); err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	return nil
}

// GetSnapshot fetches the member's current run
func (r *httpRepository) GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error) {
	var snapshot apiSnapshot
	if err := r.do(ctx, http.MethodGet, "/v1/drinks", nil, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	if snapshot.Snapshot == nil {
		snapshot.Snapshot = models.Snapshot{}
	}
	return &GetSnapshotOutput{
		RunID:     snapshot.RunID,
		StartedAt: snapshot.StartedAt,
		Snapshot:  snapshot.Snapshot,
		Total:     snapshot.Total,
	}, nil
}

// ApplyDelta posts one drink write. Retrying with the same EventID is safe.
func (r *httpRepository) ApplyDelta(ctx context.Context, input *ApplyDeltaInput) (*ApplyDeltaOutput, error) {
	if input == nil || input.RunID == "" || input.EventID == "" {
		return nil, apperr.Validation("run ID and event ID cannot be empty")
	}
	if input.Delta != 1 && input.Delta != -1 {
		return nil, apperr.Validation("delta must be 1 or -1")
	}

	var result apiDrinkResult
	err := r.do(ctx, http.MethodPost, "/v1/drinks", apiDrink{
		RunID:         input.RunID,
		CategoryID:    input.CategoryID,
		VariationName: input.VariationName,
		Delta:         input.Delta,
		EventID:       input.EventID,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to apply delta: %w", err)
	}

	return &ApplyDeltaOutput{
		Count:       result.Count,
		TotalBefore: result.RunTotalBefore,
		TotalAfter:  result.RunTotal,
		Duplicate:   result.Duplicate,
	}, nil
}

func (r *httpRepository) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindTransientDelivery, method+" "+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return responseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// responseError turns an API error body back into an apperr of the same kind
func responseError(resp *http.Response) error {
	var body apiError
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
	if body.Error == "" {
		body.Error = resp.Status
	}

	kind := apperr.Kind(body.Kind)
	if kind == "" {
		kind = apperr.KindInternal
		if resp.StatusCode >= http.StatusInternalServerError {
			kind = apperr.KindTransientDelivery
		}
	}
	return apperr.New(kind, body.Error)
}
