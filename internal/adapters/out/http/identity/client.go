// Package identity implements the profile resolution port against the
// identity service's HTTP API.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/ports"
	"groupbuy/internal/pkg/errs"
)

const providerName = "identity"

// Client resolves profile display data against the identity service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an identity client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
	}, nil
}

type batchRequest struct {
	IDs []string `json:"ids"`
}

type batchResponse struct {
	Profiles []profileResponse `json:"profiles"`
}

type profileResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// GetProfiles resolves a batch of profile ids. Ids unknown to the identity
// service are absent from the result.
func (c *Client) GetProfiles(
	ctx context.Context, ids []kernel.UUID,
) (map[kernel.UUID]ports.Profile, error) {
	if len(ids) == 0 {
		return map[kernel.UUID]ports.Profile{}, nil
	}

	rawIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		rawIDs = append(rawIDs, id.String())
	}

	body, err := json.Marshal(batchRequest{IDs: rawIDs})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/api/v1/profiles/batch"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewExternalProviderError(providerName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewExternalProviderError(providerName,
			fmt.Errorf("get profiles: unexpected status %d", resp.StatusCode))
	}

	var batch batchResponse
	if err = json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, errs.NewExternalProviderError(providerName, err)
	}

	profiles := make(map[kernel.UUID]ports.Profile, len(batch.Profiles))
	for _, dto := range batch.Profiles {
		id, idErr := kernel.UUIDFromString(dto.ID)
		if idErr != nil {
			continue
		}
		profiles[id] = ports.Profile{ID: id, DisplayName: dto.DisplayName}
	}

	return profiles, nil
}
