// Package shopify implements the read-only Storefront API client used to
// fetch authoritative variant prices at checkout time.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"chrono-checkout/internal/config"
	"chrono-checkout/internal/model"

	"github.com/rs/zerolog"
)

const variantGIDPrefix = "gid://shopify/ProductVariant/"

// variantPricesQuery fetches all requested variants in one batched call.
const variantPricesQuery = `
	query VariantPrices($ids: [ID!]!) {
		nodes(ids: $ids) {
			... on ProductVariant {
				id
				title
				availableForSale
				price {
					amount
					currencyCode
				}
			}
		}
	}
`

// Client queries the Shopify Storefront GraphQL API.
type Client struct {
	cfg        config.ShopifyConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new storefront catalog client.
func NewClient(cfg config.ShopifyConfig, logger zerolog.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With().Str("client", "shopify").Logger(),
	}
}

// NormalizeVariantID accepts either a bare numeric variant id or a fully
// qualified gid and returns the qualified form the catalog query expects.
func NormalizeVariantID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return variantGIDPrefix + id
}

// numericSuffix extracts the trailing numeric id from a qualified gid.
func numericSuffix(gid string) string {
	if idx := strings.LastIndex(gid, "/"); idx >= 0 {
		return gid[idx+1:]
	}
	return gid
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		Nodes []*variantNode `json:"nodes"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type variantNode struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	AvailableForSale bool   `json:"availableForSale"`
	Price            struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currencyCode"`
	} `json:"price"`
}

// VariantPrices resolves the given variant ids (bare numeric or qualified)
// to their authoritative price records. The returned map is keyed by BOTH
// the numeric suffix and the full qualified id, so either client-side id
// shape hits.
func (c *Client) VariantPrices(ctx context.Context, variantIDs []string) (map[string]model.VariantPrice, error) {
	ids := make([]string, 0, len(variantIDs))
	seen := make(map[string]bool, len(variantIDs))
	for _, id := range variantIDs {
		gid := NormalizeVariantID(id)
		if !seen[gid] {
			seen[gid] = true
			ids = append(ids, gid)
		}
	}

	body, err := json.Marshal(graphqlRequest{
		Query:     variantPricesQuery,
		Variables: map[string]any{"ids": ids},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GraphQLEndpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.cfg.StorefrontToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Int("variant_count", len(ids)).Msg("catalog query failed")
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(raw)).
			Msg("catalog query returned non-200")
		return nil, fmt.Errorf("catalog query returned status %d", resp.StatusCode)
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		c.logger.Error().
			Str("graphql_error", gqlResp.Errors[0].Message).
			Msg("catalog query returned errors")
		return nil, fmt.Errorf("catalog query error: %s", gqlResp.Errors[0].Message)
	}

	prices := make(map[string]model.VariantPrice, len(gqlResp.Data.Nodes)*2)
	for _, node := range gqlResp.Data.Nodes {
		// nodes() returns null entries for ids that resolve to nothing.
		if node == nil || node.ID == "" {
			continue
		}

		amount, err := strconv.ParseFloat(node.Price.Amount, 64)
		if err != nil {
			c.logger.Warn().
				Str("variant_id", node.ID).
				Str("amount", node.Price.Amount).
				Msg("unparseable price amount, skipping variant")
			continue
		}

		record := model.VariantPrice{
			ID:        node.ID,
			Title:     node.Title,
			Price:     amount,
			Available: node.AvailableForSale,
		}
		prices[node.ID] = record
		prices[numericSuffix(node.ID)] = record
	}

	c.logger.Debug().
		Int("requested", len(ids)).
		Int("resolved", len(gqlResp.Data.Nodes)).
		Msg("variant prices fetched")

	return prices, nil
}
