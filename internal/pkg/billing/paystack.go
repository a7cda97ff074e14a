package billing

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

	"github.com/subsyncapp/subsync/internal/pkg/env"
)

const defaultPaystackAPIBaseURL = "https://api.paystack.co"

// upstream retry policy: only network errors and 5xx responses are retried.
// 4xx responses, signature failures and business rejections are permanent.
const (
	paystackMaxAttempts  = 3
	paystackRetryBackoff = 500 * time.Millisecond
)

var ErrPaymentNotSuccessful = errors.New("transaction did not report success")

type PaystackClient struct {
	SecretKey  string
	APIBaseURL string

	HTTPClient *http.Client
}

// VerifiedTransaction is the subset of a Paystack verify response the
// reconciliation core consumes.
type VerifiedTransaction struct {
	Reference         string
	Status            string
	Metadata          CheckoutMetadata
	CustomerEmail     string
	CustomerCode      string
	AuthorizationCode string
	SubscriptionCode  string
}

// InitializedTransaction is the result of a checkout initialization.
type InitializedTransaction struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

func NewPaystackClientFromEnv() *PaystackClient {
	return &PaystackClient{
		SecretKey:  strings.TrimSpace(env.GetEnv("PAYSTACK_SECRET_KEY", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("PAYSTACK_API_BASE_URL", defaultPaystackAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type initializeRequest struct {
	Email       string           `json:"email"`
	Amount      int64            `json:"amount"`
	Plan        string           `json:"plan,omitempty"`
	Reference   string           `json:"reference,omitempty"`
	CallbackURL string           `json:"callback_url,omitempty"`
	Metadata    CheckoutMetadata `json:"metadata"`
}

// InitializeTransaction starts a Paystack checkout and returns the hosted
// payment page URL. The metadata is echoed back verbatim on verification and
// on webhook deliveries for this transaction.
func (c *PaystackClient) InitializeTransaction(ctx context.Context, email string, amountKobo int64, planCode, reference, callbackURL string, metadata CheckoutMetadata) (*InitializedTransaction, error) {
	if strings.TrimSpace(c.SecretKey) == "" {
		return nil, errors.New("PAYSTACK_SECRET_KEY is not configured")
	}
	if strings.TrimSpace(email) == "" {
		return nil, errors.New("customer email is required")
	}

	payload, err := json.Marshal(initializeRequest{
		Email:       strings.TrimSpace(email),
		Amount:      amountKobo,
		Plan:        strings.TrimSpace(planCode),
		Reference:   strings.TrimSpace(reference),
		CallbackURL: strings.TrimSpace(callbackURL),
		Metadata:    metadata,
	})
	if err != nil {
		return nil, err
	}

	body, err := c.doWithRetry(ctx, http.MethodPost, c.APIBaseURL+"/transaction/initialize", payload)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if !raw.Status {
		return nil, fmt.Errorf("paystack initialize rejected: %s", raw.Message)
	}
	if strings.TrimSpace(raw.Data.AuthorizationURL) == "" {
		return nil, errors.New("paystack initialize returned empty authorization_url")
	}

	return &InitializedTransaction{
		AuthorizationURL: raw.Data.AuthorizationURL,
		AccessCode:       raw.Data.AccessCode,
		Reference:        raw.Data.Reference,
	}, nil
}

// VerifyTransaction confirms a transaction reference with Paystack. A nil
// error means the API call worked; the caller must still require
// Status == "success" before touching the store. ErrPaymentNotSuccessful is
// returned for transactions Paystack reports as anything but success.
func (c *PaystackClient) VerifyTransaction(ctx context.Context, reference string) (*VerifiedTransaction, error) {
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return nil, errors.New("transaction reference is required")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return nil, errors.New("PAYSTACK_SECRET_KEY is not configured")
	}

	body, err := c.doWithRetry(ctx, http.MethodGet, c.APIBaseURL+"/transaction/verify/"+ref, nil)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Reference     string           `json:"reference"`
			Status        string           `json:"status"`
			Metadata      CheckoutMetadata `json:"metadata"`
			Customer      paystackCustomer `json:"customer"`
			Authorization struct {
				AuthorizationCode string `json:"authorization_code"`
			} `json:"authorization"`
			SubscriptionCode string `json:"subscription_code"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	out := &VerifiedTransaction{
		Reference:         strings.TrimSpace(raw.Data.Reference),
		Status:            strings.ToLower(strings.TrimSpace(raw.Data.Status)),
		Metadata:          raw.Data.Metadata,
		CustomerEmail:     strings.TrimSpace(raw.Data.Customer.Email),
		CustomerCode:      strings.TrimSpace(raw.Data.Customer.CustomerCode),
		AuthorizationCode: strings.TrimSpace(raw.Data.Authorization.AuthorizationCode),
		SubscriptionCode:  strings.TrimSpace(raw.Data.SubscriptionCode),
	}
	if !raw.Status || out.Status != "success" {
		return out, ErrPaymentNotSuccessful
	}
	return out, nil
}

// doWithRetry performs the request with a bounded retry policy. Attempts are
// spaced by exponential backoff; context cancellation aborts between attempts.
func (c *PaystackClient) doWithRetry(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= paystackMaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := paystackRetryBackoff << (attempt - 2)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.SecretKey)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("paystack request failed: status=%d body=%s", resp.StatusCode, string(body))
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("paystack request rejected: status=%d body=%s", resp.StatusCode, string(body))
		}
		return body, nil
	}
	return nil, lastErr
}

type paystackCustomer struct {
	Email        string `json:"email"`
	CustomerCode string `json:"customer_code"`
}

// WebhookPayload is the parsed body of a Paystack webhook delivery. Metadata
// may be absent entirely (renewal charges) or partial.
type WebhookPayload struct {
	Event             string
	DataID            int64
	Reference         string
	Metadata          CheckoutMetadata
	CustomerEmail     string
	CustomerCode      string
	AuthorizationCode string
	SubscriptionCode  string
}

// ParsePaystackWebhook decodes a webhook body. Paystack sends metadata as an
// object when set at initialization but as an empty string when unset, so the
// field is decoded leniently.
func ParsePaystackWebhook(payload []byte) (*WebhookPayload, error) {
	var raw struct {
		Event string `json:"event"`
		Data  struct {
			ID            int64            `json:"id"`
			Reference     string           `json:"reference"`
			Metadata      json.RawMessage  `json:"metadata"`
			Customer      paystackCustomer `json:"customer"`
			Authorization struct {
				AuthorizationCode string `json:"authorization_code"`
			} `json:"authorization"`
			SubscriptionCode string `json:"subscription_code"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw.Event) == "" {
		return nil, errors.New("paystack webhook payload missing event name")
	}

	out := &WebhookPayload{
		Event:             strings.TrimSpace(raw.Event),
		DataID:            raw.Data.ID,
		Reference:         strings.TrimSpace(raw.Data.Reference),
		CustomerEmail:     strings.TrimSpace(raw.Data.Customer.Email),
		CustomerCode:      strings.TrimSpace(raw.Data.Customer.CustomerCode),
		AuthorizationCode: strings.TrimSpace(raw.Data.Authorization.AuthorizationCode),
		SubscriptionCode:  strings.TrimSpace(raw.Data.SubscriptionCode),
	}
	if len(raw.Data.Metadata) > 0 && raw.Data.Metadata[0] == '{' {
		if err := json.Unmarshal(raw.Data.Metadata, &out.Metadata); err != nil {
			return nil, fmt.Errorf("invalid webhook metadata: %w", err)
		}
	}
	return out, nil
}

// EventID derives a stable dedup identifier for the ledger. Paystack does not
// send a dedicated event id header, so the event name plus the data object id
// (or transaction reference) is used; payloads carrying neither fall back to a
// body hash chosen by the ledger writer.
func (p *WebhookPayload) EventID() string {
	if p.DataID > 0 {
		return fmt.Sprintf("%s:%d", p.Event, p.DataID)
	}
	if p.Reference != "" {
		return p.Event + ":" + p.Reference
	}
	return ""
}
