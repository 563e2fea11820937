// Package billing implements the payment provider and commission invoice
// ports against the platform billing service's HTTP API.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/payment"
	"groupbuy/internal/core/ports"
	"groupbuy/internal/pkg/errs"
)

const providerName = "billing"

// Client talks to the billing service. It implements both
// ports.PaymentProvider and ports.InvoiceIssuer since the billing service
// owns payment intents and invoices alike.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a billing client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}, nil
}

type createIntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type intentResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	ProcessingFee int64  `json:"processing_fee"`
	FeeVAT        int64  `json:"fee_vat"`
}

// CreatePaymentIntent opens a charge with the billing service. The
// Idempotency-Key header makes retries return the already-created intent
// instead of charging twice.
func (c *Client) CreatePaymentIntent(
	ctx context.Context, idempotencyKey string, amount kernel.Cents, currency kernel.Currency,
) (ports.PaymentIntent, error) {
	if idempotencyKey == "" {
		return ports.PaymentIntent{}, errs.NewValueIsRequiredError("idempotencyKey")
	}

	body, err := json.Marshal(createIntentRequest{
		Amount:   int64(amount),
		Currency: string(currency),
	})
	if err != nil {
		return ports.PaymentIntent{}, err
	}

	url := c.baseURL + "/api/v1/payment-intents"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ports.PaymentIntent{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.PaymentIntent{}, errs.NewExternalProviderError(providerName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return ports.PaymentIntent{}, errs.NewExternalProviderError(providerName,
			fmt.Errorf("create payment intent: unexpected status %d", resp.StatusCode))
	}

	var intent intentResponse
	if err = json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return ports.PaymentIntent{}, errs.NewExternalProviderError(providerName, err)
	}

	status, err := mapStatus(intent.Status)
	if err != nil {
		return ports.PaymentIntent{}, err
	}

	return ports.PaymentIntent{ProviderRef: intent.ID, Status: status}, nil
}

// GetPaymentStatus polls the billing service for the current intent status.
func (c *Client) GetPaymentStatus(ctx context.Context, providerRef string) (ports.PaymentConfirmation, error) {
	if providerRef == "" {
		return ports.PaymentConfirmation{}, errs.NewValueIsRequiredError("providerRef")
	}

	url := fmt.Sprintf("%s/api/v1/payment-intents/%s", c.baseURL, providerRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.PaymentConfirmation{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.PaymentConfirmation{}, errs.NewExternalProviderError(providerName, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ports.PaymentConfirmation{}, errs.NewObjectNotFoundError("payment intent", providerRef)
	default:
		return ports.PaymentConfirmation{}, errs.NewExternalProviderError(providerName,
			fmt.Errorf("get payment status: unexpected status %d", resp.StatusCode))
	}

	var intent intentResponse
	if err = json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return ports.PaymentConfirmation{}, errs.NewExternalProviderError(providerName, err)
	}

	status, err := mapStatus(intent.Status)
	if err != nil {
		return ports.PaymentConfirmation{}, err
	}

	return ports.PaymentConfirmation{
		Status:        status,
		ProcessingFee: kernel.Cents(intent.ProcessingFee),
		FeeVAT:        kernel.Cents(intent.FeeVAT),
	}, nil
}

type issueInvoiceRequest struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type invoiceResponse struct {
	ID string `json:"id"`
}

// IssueCommissionInvoice issues the platform commission invoice for an
// order. The billing service deduplicates on the order id, so re-invoking
// returns the already-issued invoice.
func (c *Client) IssueCommissionInvoice(
	ctx context.Context, orderID kernel.UUID, amount kernel.Cents, currency kernel.Currency,
) (string, error) {
	if err := orderID.Validate(); err != nil {
		return "", err
	}

	body, err := json.Marshal(issueInvoiceRequest{
		OrderID:  orderID.String(),
		Amount:   int64(amount),
		Currency: string(currency),
	})
	if err != nil {
		return "", err
	}

	url := c.baseURL + "/api/v1/commission-invoices"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errs.NewExternalProviderError(providerName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", errs.NewExternalProviderError(providerName,
			fmt.Errorf("issue commission invoice: unexpected status %d", resp.StatusCode))
	}

	var invoice invoiceResponse
	if err = json.NewDecoder(resp.Body).Decode(&invoice); err != nil {
		return "", errs.NewExternalProviderError(providerName, err)
	}
	if invoice.ID == "" {
		return "", errs.NewExternalProviderError(providerName,
			fmt.Errorf("issue commission invoice: empty invoice id"))
	}

	return invoice.ID, nil
}

type participantInvoiceRequest struct {
	OrderID       string `json:"order_id"`
	ParticipantID string `json:"participant_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
}

// IssueParticipantInvoice documents a purchase settled from a participant's
// cooperative-gain balance. The Idempotency-Key header deduplicates retries
// of the same purchase attempt.
func (c *Client) IssueParticipantInvoice(
	ctx context.Context, idempotencyKey string,
	orderID, participantID kernel.UUID,
	amount kernel.Cents, currency kernel.Currency,
) (string, error) {
	if idempotencyKey == "" {
		return "", errs.NewValueIsRequiredError("idempotencyKey")
	}
	if err := orderID.Validate(); err != nil {
		return "", err
	}
	if err := participantID.Validate(); err != nil {
		return "", err
	}

	body, err := json.Marshal(participantInvoiceRequest{
		OrderID:       orderID.String(),
		ParticipantID: participantID.String(),
		Amount:        int64(amount),
		Currency:      string(currency),
	})
	if err != nil {
		return "", err
	}

	url := c.baseURL + "/api/v1/participant-invoices"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errs.NewExternalProviderError(providerName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", errs.NewExternalProviderError(providerName,
			fmt.Errorf("issue participant invoice: unexpected status %d", resp.StatusCode))
	}

	var invoice invoiceResponse
	if err = json.NewDecoder(resp.Body).Decode(&invoice); err != nil {
		return "", errs.NewExternalProviderError(providerName, err)
	}
	if invoice.ID == "" {
		return "", errs.NewExternalProviderError(providerName,
			fmt.Errorf("issue participant invoice: empty invoice id"))
	}

	return invoice.ID, nil
}

func mapStatus(status string) (payment.Status, error) {
	switch status {
	case "pending", "processing":
		return payment.Pending, nil
	case "paid", "succeeded":
		return payment.Paid, nil
	case "authorized":
		return payment.Authorized, nil
	case "failed", "canceled":
		return payment.Failed, nil
	default:
		return 0, errs.NewExternalProviderError(providerName,
			fmt.Errorf("unknown payment status %q", status))
	}
}
