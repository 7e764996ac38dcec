// Package hostapi is an HTTP client for the host commerce platform's
// internal API, used by the standalone webhook service to look up orders
// and complete carts.
package hostapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/commercekit/paystack-adapter/internal/application"
	"github.com/commercekit/paystack-adapter/internal/config"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.HostConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

func (c *Client) RetrieveByCartID(ctx context.Context, cartID string) (*application.Order, error) {
	u := fmt.Sprintf("%s/orders?cart_id=%s", c.baseURL, url.QueryEscape(cartID))
	return sendRequest[any, application.Order](c, ctx, http.MethodGet, u, nil)
}

func (c *Client) Retrieve(ctx context.Context, orderID string) (*application.Order, error) {
	u := fmt.Sprintf("%s/orders/%s", c.baseURL, url.PathEscape(orderID))
	return sendRequest[any, application.Order](c, ctx, http.MethodGet, u, nil)
}

func (c *Client) CapturePayment(ctx context.Context, orderID string) error {
	u := fmt.Sprintf("%s/orders/%s/capture", c.baseURL, url.PathEscape(orderID))
	_, err := sendRequest[any, application.Order](c, ctx, http.MethodPost, u, nil)
	return err
}

type completeCartRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
}

func (c *Client) Complete(ctx context.Context, cartID, idempotencyKey string) (*application.CompletionResult, error) {
	u := fmt.Sprintf("%s/carts/%s/complete", c.baseURL, url.PathEscape(cartID))
	req := completeCartRequest{IdempotencyKey: idempotencyKey}
	return sendRequest[completeCartRequest, application.CompletionResult](c, ctx, http.MethodPost, u, &req)
}

func sendRequest[Req any, Resp any](c *Client, ctx context.Context, method, url string, reqBody *Req) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, application.ErrOrderNotFound
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("host platform returned status %d: %s", resp.StatusCode, string(body))
	}

	var hostResp Resp
	if err := json.NewDecoder(resp.Body).Decode(&hostResp); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &hostResp, nil
}

var (
	_ application.OrderService  = (*Client)(nil)
	_ application.CartCompleter = (*Client)(nil)
)
