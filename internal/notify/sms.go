package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// GatewayError represents an error response from the message gateway.
type GatewayError struct {
	Code    int
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error %d: %s", e.Code, e.Message)
}

// IsGatewayError checks if the error is a GatewayError.
func IsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}

// SMSGateway is an HTTP client for the external SMS/LMS provider.
type SMSGateway struct {
	baseURL    string
	apiKey     string
	senderID   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSMSGateway constructs a gateway client. ratePerSecond caps outbound
// calls; zero or negative disables the cap.
func NewSMSGateway(baseURL, apiKey, senderID string, ratePerSecond float64) *SMSGateway {
	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return &SMSGateway{
		baseURL:    baseURL,
		apiKey:     apiKey,
		senderID:   senderID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    limiter,
	}
}

type sendRequest struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	MsgType  string `json:"msg_type"` // SMS or LMS
	Title    string `json:"title,omitempty"`
	Msg      string `json:"msg"`
}

type sendResponse struct {
	ResultCode int    `json:"result_code"`
	Message    string `json:"message"`
}

// Send delivers one message through the gateway.
func (g *SMSGateway) Send(ctx context.Context, msg Message) error {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	body := sendRequest{
		Sender:   g.senderID,
		Receiver: msg.Phone,
		MsgType:  msgType(msg.Kind),
		Title:    msg.Title,
		Msg:      msg.Body,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &GatewayError{Code: resp.StatusCode, Message: string(raw)}
	}

	var result sendResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("gateway response: %w", err)
	}
	if result.ResultCode < 0 {
		return &GatewayError{Code: result.ResultCode, Message: result.Message}
	}
	return nil
}

func msgType(kind string) string {
	if kind == "lms" {
		return "LMS"
	}
	return "SMS"
}
