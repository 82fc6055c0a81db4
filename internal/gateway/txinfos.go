package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/anchor-protocol/anchor-txs/internal/terra"
)

// TxInfoFetcher looks up inclusion records by transaction hash.
type TxInfoFetcher interface {
	TxInfos(ctx context.Context, txHash string) (terra.TxInfos, error)
}

const txInfosQuery = `
	query ($txhash: String!) {
		TxInfos(TxHash: $txhash) {
			TxHash
			Success
			RawLog
		}
	}
`

type txInfosData struct {
	TxInfos terra.TxInfos `json:"TxInfos"`
}

// TxInfos returns the inclusion records of txHash. Mantle answers null or an empty list while the
// transaction is not in a block yet, both of which are returned as an empty result.
func (c *Client) TxInfos(ctx context.Context, txHash string) (terra.TxInfos, error) {
	if txHash == "" {
		return nil, errors.New("tx hash is required")
	}

	data, err := query[txInfosData](ctx, c, "TxInfos", txInfosQuery, map[string]any{"txhash": txHash})
	if err != nil {
		return nil, fmt.Errorf("querying tx infos of %s: %w", txHash, err)
	}
	return data.TxInfos, nil
}
