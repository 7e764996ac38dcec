// Package paystack is a thin HTTP wrapper over the Paystack REST API.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/commercekit/paystack-adapter/internal/config"
	"github.com/commercekit/paystack-adapter/internal/domain"
)

const defaultBaseURL = "https://api.paystack.co"

// GatewayAPI is the port the payment processor and retry decorator speak.
type GatewayAPI interface {
	InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)
	VerifyTransaction(ctx context.Context, reference string) (*TransactionResponse, error)
	GetTransaction(ctx context.Context, id int64) (*TransactionResponse, error)
	CreateRefund(ctx context.Context, req RefundRequest) (*RefundResponse, error)
}

type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL points the client at a different endpoint. Tests use this to
// intercept requests with a fake server.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient builds a Paystack API client. Construction fails fast when the
// secret key is absent.
func NewClient(cfg config.PaystackConfig, opts ...Option) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, domain.NewMissingSecretKeyError()
	}

	timeout := cfg.ConnTimeout
	if timeout == 0 {
		timeout = config.DefaultPaystackTimeout
	}

	c := &Client{
		baseURL:   defaultBaseURL,
		secretKey: cfg.SecretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	if cfg.BaseURL != "" {
		c.baseURL = cfg.BaseURL
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	url := fmt.Sprintf("%s/transaction/initialize", c.baseURL)
	return sendRequest[InitializeRequest, InitializeResponse](c, ctx, http.MethodPost, url, &req)
}

func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*TransactionResponse, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, reference)
	return sendRequest[any, TransactionResponse](c, ctx, http.MethodGet, url, nil)
}

func (c *Client) GetTransaction(ctx context.Context, id int64) (*TransactionResponse, error) {
	url := fmt.Sprintf("%s/transaction/%s", c.baseURL, strconv.FormatInt(id, 10))
	return sendRequest[any, TransactionResponse](c, ctx, http.MethodGet, url, nil)
}

func (c *Client) CreateRefund(ctx context.Context, req RefundRequest) (*RefundResponse, error) {
	url := fmt.Sprintf("%s/refund", c.baseURL)
	return sendRequest[RefundRequest, RefundResponse](c, ctx, http.MethodPost, url, &req)
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

	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		var errResp gatewayErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, &GatewayError{
				Message:    string(body),
				StatusCode: resp.StatusCode,
			}
		}
		return nil, &GatewayError{
			Code:       errResp.Code,
			Message:    errResp.Message,
			StatusCode: resp.StatusCode,
		}
	}

	var gatewayResp Resp
	if err := json.NewDecoder(resp.Body).Decode(&gatewayResp); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &gatewayResp, nil
}

var _ GatewayAPI = (*Client)(nil)
