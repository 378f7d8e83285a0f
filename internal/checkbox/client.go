package checkbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"checkbox-fiscalizer/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const licenseKeyHeader = "X-License-Key"

// Machine-readable error codes from the Checkbox error taxonomy.
const (
	CodeShiftNotOpened     = "shift.not_opened"
	CodeShiftAlreadyOpened = "shift.already_opened"
)

var ErrMissingPIN = errors.New("cashier pin is required")

type APIError struct {
	StatusCode int
	Status     string
	Code       string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("checkbox api error: %s", e.Status)
	}
	return fmt.Sprintf("checkbox api error: %s: %s", e.Status, e.Body)
}

// IsCode reports whether err carries the given Checkbox error code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// StatusOf returns the upstream HTTP status of err, or 0 when err is not an
// API error (transport failure, timeout).
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.CheckboxAPIURL).
		SetHeader("Content-Type", "application/json").
		SetHeader(licenseKeyHeader, cfg.LicenseKey).
		SetTimeout(cfg.Timeout)

	return &Client{
		http:   httpClient,
		logger: logger.Named("checkbox"),
	}
}

// SignIn authenticates the virtual cashier by PIN and returns a fresh
// session token. No retry: a failed sign-in aborts the whole invocation.
func (c *Client) SignIn(ctx context.Context, pin string) (Session, error) {
	if strings.TrimSpace(pin) == "" {
		return Session{}, ErrMissingPIN
	}

	var result signInResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(signInRequest{PinCode: pin}).
		SetResult(&result).
		Post("/cashier/signinPinCode")
	if err != nil {
		return Session{}, fmt.Errorf("checkbox sign-in: %w", err)
	}
	if resp.IsError() {
		return Session{}, apiErrorFromResponse(resp)
	}

	return Session{Token: result.AccessToken, IssuedAt: time.Now().UTC()}, nil
}

// CurrentShift returns the cashier's shift, or nil when no shift exists.
// The endpoint answers a literal null body for a cashier with no shift.
func (c *Client) CurrentShift(ctx context.Context, session Session) (*Shift, error) {
	resp, err := c.authed(ctx, session).Get("/cashier/shift")
	if err != nil {
		return nil, fmt.Errorf("checkbox shift status: %w", err)
	}
	if resp.IsError() {
		return nil, apiErrorFromResponse(resp)
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" || body == "null" {
		return nil, nil
	}

	var shift Shift
	if err := json.Unmarshal([]byte(body), &shift); err != nil {
		return nil, fmt.Errorf("checkbox shift status: decoding %q: %w", body, err)
	}
	return &shift, nil
}

func (c *Client) OpenShift(ctx context.Context, session Session) (*Shift, error) {
	var shift Shift
	resp, err := c.authed(ctx, session).SetResult(&shift).Post("/shifts")
	if err != nil {
		return nil, fmt.Errorf("checkbox open shift: %w", err)
	}
	if resp.IsError() {
		return nil, apiErrorFromResponse(resp)
	}
	return &shift, nil
}

// CloseShift requests the Z-report that terminates the current shift.
func (c *Client) CloseShift(ctx context.Context, session Session) error {
	resp, err := c.authed(ctx, session).Post("/shifts/close")
	if err != nil {
		return fmt.Errorf("checkbox close shift: %w", err)
	}
	if resp.IsError() {
		return apiErrorFromResponse(resp)
	}
	return nil
}

// CreateReceipt submits a sell or return receipt for fiscalization.
func (c *Client) CreateReceipt(ctx context.Context, session Session, payload ReceiptPayload, kind ReceiptKind) (Receipt, error) {
	path := "/receipts/sell"
	if kind == ReceiptKindReturn {
		path = "/receipts/return"
	}

	var receipt Receipt
	resp, err := c.authed(ctx, session).SetBody(payload).SetResult(&receipt).Post(path)
	if err != nil {
		return Receipt{}, fmt.Errorf("checkbox create receipt: %w", err)
	}
	if resp.IsError() {
		return Receipt{}, apiErrorFromResponse(resp)
	}

	c.logger.Info("receipt created", zap.String("receipt_id", receipt.ID), zap.String("kind", string(kind)))
	return receipt, nil
}

func (c *Client) authed(ctx context.Context, session Session) *resty.Request {
	return c.http.R().SetContext(ctx).SetAuthToken(session.Token)
}

func apiErrorFromResponse(resp *resty.Response) error {
	body := strings.TrimSpace(string(resp.Body()))
	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       body,
	}

	// Error bodies normally carry {"code": "...", "message": "..."}, but
	// gateways in front of the API may answer plain text.
	var decoded errorBody
	if err := json.Unmarshal([]byte(body), &decoded); err == nil {
		apiErr.Code = decoded.Code
	}

	return apiErr
}
