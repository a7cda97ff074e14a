package billing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(baseURL string) *PaystackClient {
	return &PaystackClient{
		SecretKey:  "sk_test_key",
		APIBaseURL: baseURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestVerifyTransactionSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": true,
			"data": {
				"reference": "ref-1",
				"status": "success",
				"metadata": {"user_id": 7, "plan": "pro", "billing": "yearly"},
				"customer": {"email": "jo@example.com", "customer_code": "CUS_1"},
				"authorization": {"authorization_code": "AUTH_1"},
				"subscription_code": "SUB_1"
			}
		}`))
	}))
	defer srv.Close()

	tx, err := testClient(srv.URL).VerifyTransaction(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("VerifyTransaction returned error: %v", err)
	}
	if tx.Reference != "ref-1" || tx.Status != "success" {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if tx.Metadata.UserID != 7 || tx.Metadata.Plan != "pro" || tx.Metadata.Billing != "yearly" {
		t.Fatalf("metadata not decoded: %+v", tx.Metadata)
	}
	if tx.CustomerEmail != "jo@example.com" || tx.CustomerCode != "CUS_1" {
		t.Fatalf("customer not decoded: %+v", tx)
	}
	if tx.AuthorizationCode != "AUTH_1" || tx.SubscriptionCode != "SUB_1" {
		t.Fatalf("codes not decoded: %+v", tx)
	}
}

func TestVerifyTransactionFailedPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": true, "data": {"reference": "ref-2", "status": "failed"}}`))
	}))
	defer srv.Close()

	tx, err := testClient(srv.URL).VerifyTransaction(context.Background(), "ref-2")
	if !errors.Is(err, ErrPaymentNotSuccessful) {
		t.Fatalf("expected ErrPaymentNotSuccessful, got %v", err)
	}
	if tx == nil || tx.Status != "failed" {
		t.Fatalf("expected the failed transaction to be returned alongside the error, got %+v", tx)
	}
}

func TestVerifyTransactionRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"status": true, "data": {"reference": "ref-3", "status": "success"}}`))
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).VerifyTransaction(context.Background(), "ref-3"); err != nil {
		t.Fatalf("expected retries to recover from 5xx, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Fatalf("expected 3 attempts, got %d", n)
	}
}

func TestVerifyTransactionDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).VerifyTransaction(context.Background(), "ref-4"); err == nil {
		t.Fatalf("expected error on 404")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected a single attempt on 4xx, got %d", n)
	}
}

func TestVerifyTransactionGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).VerifyTransaction(context.Background(), "ref-5"); err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if n := atomic.LoadInt32(&calls); n != paystackMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", paystackMaxAttempts, n)
	}
}

func TestInitializeTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{
			"status": true,
			"data": {
				"authorization_url": "https://checkout.paystack.com/abc",
				"access_code": "abc",
				"reference": "ref-6"
			}
		}`))
	}))
	defer srv.Close()

	tx, err := testClient(srv.URL).InitializeTransaction(context.Background(),
		"jo@example.com", 700000, "PLN_basic_monthly", "ref-6", "https://app.example.com/api/paystack/callback",
		CheckoutMetadata{UserID: 7, Plan: "basic", Billing: "monthly"})
	if err != nil {
		t.Fatalf("InitializeTransaction returned error: %v", err)
	}
	if tx.AuthorizationURL != "https://checkout.paystack.com/abc" || tx.Reference != "ref-6" {
		t.Fatalf("unexpected result %+v", tx)
	}
}

func TestInitializeTransactionRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": false, "message": "Invalid plan"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).InitializeTransaction(context.Background(),
		"jo@example.com", 700000, "PLN_bogus", "", "", CheckoutMetadata{})
	if err == nil {
		t.Fatalf("expected rejection error")
	}
}

func TestParsePaystackWebhookWithMetadata(t *testing.T) {
	raw := []byte(`{
		"event": "charge.success",
		"data": {
			"id": 12345,
			"reference": "ref-7",
			"metadata": {"user_id": 9, "user_email": "jo@example.com", "plan": "premium", "billing": "monthly"},
			"customer": {"email": "jo@example.com", "customer_code": "CUS_9"},
			"authorization": {"authorization_code": "AUTH_9"},
			"subscription_code": "SUB_9"
		}
	}`)

	p, err := ParsePaystackWebhook(raw)
	if err != nil {
		t.Fatalf("ParsePaystackWebhook returned error: %v", err)
	}
	if p.Event != "charge.success" || p.DataID != 12345 {
		t.Fatalf("unexpected payload %+v", p)
	}
	if p.Metadata.UserID != 9 || p.Metadata.Plan != "premium" {
		t.Fatalf("metadata not decoded: %+v", p.Metadata)
	}
}

func TestParsePaystackWebhookEmptyStringMetadata(t *testing.T) {
	// Renewal charges carry metadata as "" instead of an object.
	raw := []byte(`{
		"event": "charge.success",
		"data": {
			"id": 99,
			"metadata": "",
			"customer": {"email": "renewal@example.com"}
		}
	}`)

	p, err := ParsePaystackWebhook(raw)
	if err != nil {
		t.Fatalf("ParsePaystackWebhook returned error: %v", err)
	}
	if p.Metadata.UserID != 0 || p.Metadata.Plan != "" {
		t.Fatalf("expected zero metadata, got %+v", p.Metadata)
	}
	if p.CustomerEmail != "renewal@example.com" {
		t.Fatalf("customer email not decoded: %+v", p)
	}
}

func TestParsePaystackWebhookMissingEvent(t *testing.T) {
	if _, err := ParsePaystackWebhook([]byte(`{"data": {"id": 1}}`)); err == nil {
		t.Fatalf("expected error for payload without event name")
	}
}

func TestWebhookPayloadEventID(t *testing.T) {
	tests := []struct {
		payload WebhookPayload
		want    string
	}{
		{payload: WebhookPayload{Event: "charge.success", DataID: 42}, want: "charge.success:42"},
		{payload: WebhookPayload{Event: "charge.success", Reference: "ref-1"}, want: "charge.success:ref-1"},
		{payload: WebhookPayload{Event: "charge.success", DataID: 42, Reference: "ref-1"}, want: "charge.success:42"},
		{payload: WebhookPayload{Event: "charge.success"}, want: ""},
	}

	for _, tt := range tests {
		if got := tt.payload.EventID(); got != tt.want {
			t.Fatalf("EventID() = %q, want %q", got, tt.want)
		}
	}
}
