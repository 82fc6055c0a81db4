package wallet

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

	"github.com/anchor-protocol/anchor-txs/internal/metrics"
	"github.com/anchor-protocol/anchor-txs/internal/terra"
	"github.com/anchor-protocol/anchor-txs/internal/utils"
)

const postPath = "/post"

type postRequest struct {
	TxOptions terra.TxOptions `json:"txOptions"`
}

type postResult struct {
	TxHash string `json:"txhash"`
	Height int64  `json:"height"`
	RawLog string `json:"raw_log"`
}

type postResponse struct {
	Result  postResult `json:"result"`
	Success bool       `json:"success"`
}

// Client asks a wallet bridge to sign and broadcast transactions. The bridge holds the user's keys and
// prompts the user; a post can take as long as the user needs.
type Client struct {
	baseURL        string
	httpClient     utils.HTTPClient
	metricsService metrics.MetricsService
}

type ClientOptions struct {
	BaseURL        string
	HTTPClient     utils.HTTPClient
	MetricsService metrics.MetricsService
}

func (o ClientOptions) Validate() error {
	if o.BaseURL == "" {
		return errors.New("wallet bridge URL is required")
	}
	if _, err := url.ParseRequestURI(o.BaseURL); err != nil {
		return fmt.Errorf("parsing wallet bridge URL: %w", err)
	}
	if o.HTTPClient == nil {
		return errors.New("http client is required")
	}
	if o.MetricsService == nil {
		return errors.New("metrics service is required")
	}
	return nil
}

func NewClient(opts ClientOptions) (*Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validating wallet client options: %w", err)
	}
	return &Client{
		baseURL:        opts.BaseURL,
		httpClient:     opts.HTTPClient,
		metricsService: opts.MetricsService,
	}, nil
}

// Post hands txOptions to the wallet. It is called once per run and never retried.
func (c *Client) Post(ctx context.Context, txOptions terra.TxOptions) (result terra.TxResult, err error) {
	startTime := time.Now()
	defer func() {
		outcome := "posted"
		if err != nil {
			outcome = "transport_error"
			if code, ok := codeOf(err); ok {
				outcome = string(code)
			}
		}
		c.metricsService.IncWalletPosts(outcome)
		c.metricsService.ObserveWalletPostDuration(outcome, time.Since(startTime).Seconds())
	}()

	resp, err := c.request(ctx, http.MethodPost, postPath, postRequest{TxOptions: txOptions})
	if err != nil {
		return terra.TxResult{}, fmt.Errorf("calling wallet bridge: %w", err)
	}
	defer utils.DeferredClose(ctx, resp.Body, "closing wallet bridge response body")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return terra.TxResult{}, fmt.Errorf("reading wallet bridge response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var walletErr Error
		if jsonErr := json.Unmarshal(body, &walletErr); jsonErr == nil && walletErr.Code != "" {
			log.Ctx(ctx).Debugf("wallet bridge refused to post: %s", walletErr.Error())
			return terra.TxResult{}, &walletErr
		}
		return terra.TxResult{}, fmt.Errorf("unexpected statusCode=%d, body=%v", resp.StatusCode, string(body))
	}

	var postResp postResponse
	if err := json.Unmarshal(body, &postResp); err != nil {
		return terra.TxResult{}, fmt.Errorf("unmarshalling wallet bridge response body: %w", err)
	}
	if postResp.Result.TxHash == "" {
		return terra.TxResult{}, &Error{Code: CodeTxUnspecifiedError, Message: "wallet returned no transaction hash"}
	}

	return terra.TxResult{
		TxHash:  postResp.Result.TxHash,
		Height:  postResp.Result.Height,
		RawLog:  postResp.Result.RawLog,
		Success: postResp.Success,
	}, nil
}

func (c *Client) request(ctx context.Context, method, path string, bodyObj any) (*http.Response, error) {
	reqBody, err := json.Marshal(bodyObj)
	if err != nil {
		return nil, fmt.Errorf("marshalling request body: %w", err)
	}

	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("joining path: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, bytes.NewBuffer(reqBody))
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
