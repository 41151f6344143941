package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fleetworks/fleet-maintenance/internal/models"
)

// Client is a thin HTTP client for the fleet maintenance API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) doRequest(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}

func decodeOrError(resp *http.Response, want int, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed: %s (status: %d)", string(body), resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(email, password string) (*models.LoginResponse, error) {
	resp, err := c.doRequest("POST", "/api/v1/auth/login", models.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var result models.LoginResponse
	if err := decodeOrError(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAssets retrieves the fleet asset list.
func (c *Client) ListAssets() ([]models.Asset, error) {
	resp, err := c.doRequest("GET", "/api/v1/assets", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Assets []models.Asset `json:"assets"`
	}
	if err := decodeOrError(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return result.Assets, nil
}

// MaintenanceLog retrieves the maintenance log for one asset code.
func (c *Client) MaintenanceLog(ficha string) ([]models.MaintenanceLogEntry, error) {
	resp, err := c.doRequest("GET", "/api/v1/assets/ficha/"+ficha+"/log", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Entries []models.MaintenanceLogEntry `json:"entries"`
	}
	if err := decodeOrError(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return result.Entries, nil
}

// CreateWorkOrder opens a work order.
func (c *Client) CreateWorkOrder(req *models.CreateWorkOrderRequest) (*models.WorkOrder, error) {
	resp, err := c.doRequest("POST", "/api/v1/work-orders", req)
	if err != nil {
		return nil, err
	}

	var result models.WorkOrder
	if err := decodeOrError(resp, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListWorkOrders retrieves work orders, optionally filtered by state.
func (c *Client) ListWorkOrders(state string) ([]models.WorkOrder, error) {
	path := "/api/v1/work-orders"
	if state != "" {
		path += "?state=" + state
	}
	resp, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		WorkOrders []models.WorkOrder `json:"work_orders"`
	}
	if err := decodeOrError(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return result.WorkOrders, nil
}

// TransitionWorkOrder fires one lifecycle action against a work order.
// action is one of assign, start, pause, resume, close, cancel; body carries
// the action-specific payload and may be nil.
func (c *Client) TransitionWorkOrder(id, action string, body interface{}) (*models.WorkOrder, error) {
	resp, err := c.doRequest("POST", "/api/v1/work-orders/"+id+"/"+action, body)
	if err != nil {
		return nil, err
	}

	var result models.WorkOrder
	if err := decodeOrError(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreatePurchaseOrder registers a draft purchase order.
func (c *Client) CreatePurchaseOrder(req *models.CreatePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	resp, err := c.doRequest("POST", "/api/v1/purchase-orders", req)
	if err != nil {
		return nil, err
	}

	var result models.PurchaseOrder
	if err := decodeOrError(resp, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitPurchaseOrder moves a draft into the approval phase.
func (c *Client) SubmitPurchaseOrder(id string) (*models.PurchaseOrder, error) {
	resp, err := c.doRequest("POST", "/api/v1/purchase-orders/"+id+"/submit", nil)
	if err != nil {
		return nil, err
	}

	var result models.PurchaseOrder
	if err := decodeOrError(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ApprovePurchaseOrder approves at one level.
func (c *Client) ApprovePurchaseOrder(id string, level int, comment string) (*models.PurchaseOrder, error) {
	req := models.ApproveRequest{Level: level}
	if comment != "" {
		req.Comment = &comment
	}
	resp, err := c.doRequest("POST", "/api/v1/purchase-orders/"+id+"/approve", req)
	if err != nil {
		return nil, err
	}

	var result models.PurchaseOrder
	if err := decodeOrError(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RejectPurchaseOrder rejects at one level.
func (c *Client) RejectPurchaseOrder(id string, level int, reason string) (*models.PurchaseOrder, error) {
	resp, err := c.doRequest("POST", "/api/v1/purchase-orders/"+id+"/reject", models.RejectRequest{
		Level:  level,
		Reason: reason,
	})
	if err != nil {
		return nil, err
	}

	var result models.PurchaseOrder
	if err := decodeOrError(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PendingPurchaseOrders lists orders awaiting the caller's role.
func (c *Client) PendingPurchaseOrders() ([]models.PurchaseOrder, error) {
	resp, err := c.doRequest("GET", "/api/v1/purchase-orders/pending", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		PurchaseOrders []models.PurchaseOrder `json:"purchase_orders"`
	}
	if err := decodeOrError(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return result.PurchaseOrders, nil
}

// PurchaseOrderHistory retrieves the approval audit trail for an order.
func (c *Client) PurchaseOrderHistory(id string) ([]models.ApprovalHistoryEntry, error) {
	resp, err := c.doRequest("GET", "/api/v1/purchase-orders/"+id+"/history", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		History []models.ApprovalHistoryEntry `json:"history"`
	}
	if err := decodeOrError(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return result.History, nil
}
