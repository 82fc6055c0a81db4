package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/stellar/go-stellar-sdk/support/log"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/metrics"
	"github.com/anchor-protocol/anchor-txs/internal/utils"
)

type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type GraphQLResponse struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message string `json:"message"`
}

// Querier is the read side of the chain the transaction pipeline depends on.
type Querier interface {
	TxInfoFetcher
	BorrowMarket(ctx context.Context) (*anchor.BorrowMarket, error)
	BorrowBorrower(ctx context.Context, address string) (*anchor.BorrowBorrower, error)
}

// Client queries a Mantle GraphQL gateway.
type Client struct {
	endpoint        string
	httpClient      utils.HTTPClient
	metricsService  metrics.MetricsService
	addressProvider anchor.AddressProvider
}

var _ Querier = (*Client)(nil)

type ClientOptions struct {
	Endpoint        string
	HTTPClient      utils.HTTPClient
	MetricsService  metrics.MetricsService
	AddressProvider anchor.AddressProvider
}

func (o ClientOptions) Validate() error {
	if o.Endpoint == "" {
		return errors.New("mantle endpoint is required")
	}
	if _, err := url.ParseRequestURI(o.Endpoint); err != nil {
		return fmt.Errorf("parsing mantle endpoint: %w", err)
	}
	if o.HTTPClient == nil {
		return errors.New("http client is required")
	}
	if o.MetricsService == nil {
		return errors.New("metrics service is required")
	}
	if err := o.AddressProvider.Validate(); err != nil {
		return fmt.Errorf("validating address provider: %w", err)
	}
	return nil
}

func NewClient(opts ClientOptions) (*Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validating gateway client options: %w", err)
	}
	return &Client{
		endpoint:        opts.Endpoint,
		httpClient:      opts.HTTPClient,
		metricsService:  opts.MetricsService,
		addressProvider: opts.AddressProvider,
	}, nil
}

// query posts one GraphQL document to the gateway and decodes its data into T. Mantle routes by the
// operation name passed as the raw query string, e.g. `https://mantle.example/?TxInfos`.
func query[T any](ctx context.Context, c *Client, operation, document string, variables map[string]any) (T, error) {
	var data T

	startTime := time.Now()
	c.metricsService.IncGatewayMethodCalls(operation)
	defer func() {
		c.metricsService.ObserveGatewayMethodDuration(operation, time.Since(startTime).Seconds())
	}()

	resp, err := c.request(ctx, operation, GraphQLRequest{Query: document, Variables: variables})
	if err != nil {
		c.metricsService.IncGatewayMethodErrors(operation, "request_error")
		return data, fmt.Errorf("calling mantle: %w", err)
	}
	defer utils.DeferredClose(ctx, resp.Body, "closing mantle response body")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metricsService.IncGatewayMethodErrors(operation, "read_error")
		return data, fmt.Errorf("reading mantle response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.metricsService.IncGatewayMethodErrors(operation, "http_error")
		log.Ctx(ctx).Errorf("mantle %s responded with statusCode=%d, body=%s", operation, resp.StatusCode, string(body))
		return data, fmt.Errorf("unexpected statusCode=%d, body=%v", resp.StatusCode, string(body))
	}

	var gqlResponse GraphQLResponse
	if err := json.Unmarshal(body, &gqlResponse); err != nil {
		c.metricsService.IncGatewayMethodErrors(operation, "json_unmarshal_error")
		return data, fmt.Errorf("unmarshalling mantle response body: %w", err)
	}
	if len(gqlResponse.Errors) > 0 {
		c.metricsService.IncGatewayMethodErrors(operation, "graphql_error")
		return data, fmt.Errorf("GraphQL error: %s", gqlResponse.Errors[0].Message)
	}

	if len(gqlResponse.Data) > 0 {
		if err := json.Unmarshal(gqlResponse.Data, &data); err != nil {
			c.metricsService.IncGatewayMethodErrors(operation, "json_unmarshal_error")
			return data, fmt.Errorf("unmarshalling GraphQL data: %w", err)
		}
	}
	return data, nil
}

func (c *Client) request(ctx context.Context, operation string, bodyObj any) (*http.Response, error) {
	reqBody, err := json.Marshal(bodyObj)
	if err != nil {
		return nil, fmt.Errorf("marshalling request body: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?"+url.QueryEscape(operation), bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	return resp, nil
}
