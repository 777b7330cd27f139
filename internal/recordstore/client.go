package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
)

// Config holds record store client configuration.
type Config struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
	AppIDs   AppIDs
}

// Client is a thin HTTP client for the record store REST API. All decision
// logic stays outside; this layer only fetches and persists records.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a new record store client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// GetPurchaseOrder fetches one purchase order by record id.
func (c *Client) GetPurchaseOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	rec, err := c.get(ctx, c.cfg.AppIDs.Orders, id)
	if err != nil {
		return nil, err
	}
	return decodeOrder(rec), nil
}

// ListPurchaseOrders fetches all purchase orders.
func (c *Client) ListPurchaseOrders(ctx context.Context) ([]*entity.PurchaseOrder, error) {
	recs, err := c.list(ctx, c.cfg.AppIDs.Orders)
	if err != nil {
		return nil, err
	}
	orders := make([]*entity.PurchaseOrder, 0, len(recs))
	for _, rec := range recs {
		orders = append(orders, decodeOrder(rec))
	}
	return orders, nil
}

// GetOrderConfirmation fetches one confirmation by record id.
func (c *Client) GetOrderConfirmation(ctx context.Context, id string) (*entity.OrderConfirmation, error) {
	rec, err := c.get(ctx, c.cfg.AppIDs.Confirmations, id)
	if err != nil {
		return nil, err
	}
	return decodeConfirmation(rec), nil
}

// ListOrderConfirmations fetches all confirmations.
func (c *Client) ListOrderConfirmations(ctx context.Context) ([]*entity.OrderConfirmation, error) {
	recs, err := c.list(ctx, c.cfg.AppIDs.Confirmations)
	if err != nil {
		return nil, err
	}
	confirmations := make([]*entity.OrderConfirmation, 0, len(recs))
	for _, rec := range recs {
		confirmations = append(confirmations, decodeConfirmation(rec))
	}
	return confirmations, nil
}

// CreateOrderConfirmation creates a confirmation record and returns its id.
func (c *Client) CreateOrderConfirmation(ctx context.Context, confirmation *entity.OrderConfirmation) (string, error) {
	fields := encodeConfirmation(confirmation, c.cfg.BaseURL, c.cfg.AppIDs.Orders)
	return c.create(ctx, c.cfg.AppIDs.Confirmations, fields)
}

// GetResult fetches one reconciliation result by record id.
func (c *Client) GetResult(ctx context.Context, id string) (*entity.ReconciliationResult, error) {
	rec, err := c.get(ctx, c.cfg.AppIDs.Results, id)
	if err != nil {
		return nil, err
	}
	return decodeResult(rec), nil
}

// ListResults fetches all reconciliation results.
func (c *Client) ListResults(ctx context.Context) ([]*entity.ReconciliationResult, error) {
	recs, err := c.list(ctx, c.cfg.AppIDs.Results)
	if err != nil {
		return nil, err
	}
	results := make([]*entity.ReconciliationResult, 0, len(recs))
	for _, rec := range recs {
		results = append(results, decodeResult(rec))
	}
	return results, nil
}

// CreateResult creates a reconciliation result record and returns its id.
func (c *Client) CreateResult(ctx context.Context, result *entity.ReconciliationResult) (string, error) {
	fields := encodeResult(result, c.cfg.BaseURL, c.cfg.AppIDs)
	return c.create(ctx, c.cfg.AppIDs.Results, fields)
}

// UpdateResultStatus patches only the workflow status of a result.
func (c *Client) UpdateResultStatus(ctx context.Context, id, status string) error {
	return c.update(ctx, c.cfg.AppIDs.Results, id, map[string]interface{}{
		fieldStatus: statusToWire(status),
	})
}

// CreateDecision creates a review decision record and returns its id.
func (c *Client) CreateDecision(ctx context.Context, decision *entity.ReviewDecision) (string, error) {
	fields := encodeDecision(decision, c.cfg.BaseURL, c.cfg.AppIDs.Results)
	return c.create(ctx, c.cfg.AppIDs.Decisions, fields)
}

// ListDecisions fetches all review decisions.
func (c *Client) ListDecisions(ctx context.Context) ([]*entity.ReviewDecision, error) {
	recs, err := c.list(ctx, c.cfg.AppIDs.Decisions)
	if err != nil {
		return nil, err
	}
	decisions := make([]*entity.ReviewDecision, 0, len(recs))
	for _, rec := range recs {
		decisions = append(decisions, decodeDecision(rec))
	}
	return decisions, nil
}

func (c *Client) list(ctx context.Context, appID string) ([]Record, error) {
	body, err := c.call(ctx, http.MethodGet, fmt.Sprintf("/apps/%s/records", appID), nil)
	if err != nil {
		return nil, err
	}

	// The store returns a map keyed by record id.
	var raw map[string]rawRecord
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode record list: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for id, r := range raw {
		r.ID = id
		records = append(records, toRecord(r))
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, appID, id string) (Record, error) {
	body, err := c.call(ctx, http.MethodGet, fmt.Sprintf("/apps/%s/records/%s", appID, id), nil)
	if err != nil {
		return Record{}, err
	}

	var raw rawRecord
	if err := json.Unmarshal(body, &raw); err != nil {
		return Record{}, fmt.Errorf("failed to decode record: %w", err)
	}
	if raw.ID == "" {
		raw.ID = id
	}
	return toRecord(raw), nil
}

func (c *Client) create(ctx context.Context, appID string, fields map[string]interface{}) (string, error) {
	body, err := c.call(ctx, http.MethodPost, fmt.Sprintf("/apps/%s/records", appID),
		map[string]interface{}{"fields": fields})
	if err != nil {
		return "", err
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode create response: %w", err)
	}
	return resp.ID, nil
}

func (c *Client) update(ctx context.Context, appID, id string, fields map[string]interface{}) error {
	_, err := c.call(ctx, http.MethodPatch, fmt.Sprintf("/apps/%s/records/%s", appID, id),
		map[string]interface{}{"fields": fields})
	return err
}

// Delete removes a record from a collection. Unused by the reconciliation
// flow itself, exposed for operational cleanup.
func (c *Client) Delete(ctx context.Context, appID, id string) error {
	_, err := c.call(ctx, http.MethodDelete, fmt.Sprintf("/apps/%s/records/%s", appID, id), nil)
	return err
}

func (c *Client) call(ctx context.Context, method, endpoint string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Record store request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return nil, fmt.Errorf("record store request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, method, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Record store returned error",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("record store returned %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func toRecord(r rawRecord) Record {
	rec := Record{
		ID:     r.ID,
		Fields: r.Fields,
	}
	if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		rec.CreatedAt = t
	}
	if r.UpdatedAt != nil {
		if t, err := time.Parse(time.RFC3339, *r.UpdatedAt); err == nil {
			rec.UpdatedAt = &t
		}
	}
	return rec
}
