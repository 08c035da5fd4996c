package clients

import (
	"fmt"
	"net/http"
	"time"

	"workshop-inventory/apperrors"

	"github.com/go-resty/resty/v2"
)

// CheckoutClient talks to a remote tool-checkout service over HTTP. It
// satisfies service.CheckoutService so the allocation workflow cannot tell
// it apart from the local subsystem.
type CheckoutClient struct {
	http *resty.Client
}

func NewCheckoutClient(baseURL string) *CheckoutClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &CheckoutClient{http: client}
}

type checkOutRequest struct {
	ToolID    uint   `json:"tool_id"`
	ProjectID uint   `json:"project_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

type checkOutResponse struct {
	CheckoutID string `json:"checkout_id"`
}

type checkInRequest struct {
	ToolID         uint   `json:"tool_id"`
	Quantity       int    `json:"quantity"`
	ConditionNotes string `json:"condition_notes"`
}

type availabilityResponse struct {
	Available int `json:"available"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *CheckoutClient) CheckOut(toolID, projectID uint, quantity int, notes string) (string, error) {
	var out checkOutResponse
	var apiErr errorResponse

	resp, err := c.http.R().
		SetBody(checkOutRequest{ToolID: toolID, ProjectID: projectID, Quantity: quantity, Notes: notes}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/checkouts")
	if err != nil {
		return "", fmt.Errorf("checkout service: %w", err)
	}
	if err := c.statusError(resp, toolID, apiErr); err != nil {
		return "", err
	}
	return out.CheckoutID, nil
}

func (c *CheckoutClient) CheckIn(toolID uint, checkoutID string, quantity int, conditionNotes string) error {
	var apiErr errorResponse

	resp, err := c.http.R().
		SetBody(checkInRequest{ToolID: toolID, Quantity: quantity, ConditionNotes: conditionNotes}).
		SetError(&apiErr).
		Post("/checkouts/" + checkoutID + "/return")
	if err != nil {
		return fmt.Errorf("checkout service: %w", err)
	}
	return c.statusError(resp, toolID, apiErr)
}

func (c *CheckoutClient) Availability(toolID uint) (int, bool, error) {
	var out availabilityResponse

	resp, err := c.http.R().
		SetResult(&out).
		Get(fmt.Sprintf("/tools/%d/availability", toolID))
	if err != nil {
		return 0, false, fmt.Errorf("checkout service: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return 0, false, nil
	}
	if resp.IsError() {
		return 0, false, fmt.Errorf("checkout service: unexpected status %d", resp.StatusCode())
	}
	return out.Available, true, nil
}

// statusError translates remote failures into the local error taxonomy so
// callers handle both checkout backends identically.
func (c *CheckoutClient) statusError(resp *resty.Response, toolID uint, apiErr errorResponse) error {
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return apperrors.NotFound("tool", toolID)
	case resp.StatusCode() == http.StatusBadRequest || resp.StatusCode() == http.StatusConflict:
		return apperrors.Validation("tool", toolID, "checkout", apiErr.Message)
	case resp.IsError():
		return fmt.Errorf("checkout service: unexpected status %d", resp.StatusCode())
	}
	return nil
}
