// Package catalog implements the product catalog port against the catalog
// service's HTTP API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/ports"
	"groupbuy/internal/pkg/errs"
)

const providerName = "catalog"

// Client resolves products against the catalog service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}, nil
}

type productResponse struct {
	ID            string  `json:"id"`
	LotID         *string `json:"lot_id"`
	Name          string  `json:"name"`
	UnitWeight    float64 `json:"unit_weight"`
	BaseUnitPrice int64   `json:"base_unit_price"`
	Available     bool    `json:"available"`
}

// GetProduct fetches a product, optionally scoped to a lot.
func (c *Client) GetProduct(
	ctx context.Context, productID kernel.UUID, lotID *kernel.UUID,
) (ports.CatalogProduct, error) {
	if err := productID.Validate(); err != nil {
		return ports.CatalogProduct{}, err
	}

	endpoint := fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, productID.String())
	if lotID != nil {
		endpoint += "?lot=" + url.QueryEscape(lotID.String())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.CatalogProduct{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.CatalogProduct{}, errs.NewExternalProviderError(providerName, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ports.CatalogProduct{}, errs.NewObjectNotFoundError("product", productID.String())
	default:
		return ports.CatalogProduct{}, errs.NewExternalProviderError(providerName,
			fmt.Errorf("get product: unexpected status %d", resp.StatusCode))
	}

	var dto productResponse
	if err = json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return ports.CatalogProduct{}, errs.NewExternalProviderError(providerName, err)
	}

	return toProduct(dto)
}

func toProduct(dto productResponse) (ports.CatalogProduct, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return ports.CatalogProduct{}, errs.NewExternalProviderError(providerName, err)
	}

	var lotID *kernel.UUID
	if dto.LotID != nil {
		lot, lotErr := kernel.UUIDFromString(*dto.LotID)
		if lotErr != nil {
			return ports.CatalogProduct{}, errs.NewExternalProviderError(providerName, lotErr)
		}
		lotID = &lot
	}

	return ports.CatalogProduct{
		ID:            id,
		LotID:         lotID,
		Name:          dto.Name,
		UnitWeight:    kernel.Kilograms(dto.UnitWeight),
		BaseUnitPrice: kernel.Cents(dto.BaseUnitPrice),
		Available:     dto.Available,
	}, nil
}
