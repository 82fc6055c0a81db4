package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/validators"
)

// ContractStoreResult is a WasmContractsContractAddressStore answer. Result is the contract's JSON
// response encoded as a string.
type ContractStoreResult struct {
	Result string `json:"Result"`
}

const borrowMarketQuery = `
	query ($oracleContract: String!, $oracleQuery: String!) {
		oraclePrice: WasmContractsContractAddressStore(
			ContractAddress: $oracleContract
			QueryMsg: $oracleQuery
		) {
			Result
		}
	}
`

type borrowMarketData struct {
	OraclePrice *ContractStoreResult `json:"oraclePrice"`
}

const borrowBorrowerQuery = `
	query (
		$marketContract: String!
		$marketBorrowerQuery: String!
		$custodyContract: String!
		$custodyBorrowerQuery: String!
	) {
		marketBorrowerInfo: WasmContractsContractAddressStore(
			ContractAddress: $marketContract
			QueryMsg: $marketBorrowerQuery
		) {
			Result
		}

		custodyBorrower: WasmContractsContractAddressStore(
			ContractAddress: $custodyContract
			QueryMsg: $custodyBorrowerQuery
		) {
			Result
		}
	}
`

type borrowBorrowerData struct {
	MarketBorrowerInfo *ContractStoreResult `json:"marketBorrowerInfo"`
	CustodyBorrower    *ContractStoreResult `json:"custodyBorrower"`
}

// BorrowMarket loads the bLuna/UST oracle price. It returns nil when the oracle has no price.
func (c *Client) BorrowMarket(ctx context.Context) (*anchor.BorrowMarket, error) {
	oracleQuery, err := queryMsg(map[string]any{
		"price": map[string]string{
			"base":  c.addressProvider.BLunaToken,
			"quote": anchor.USTDenom,
		},
	})
	if err != nil {
		return nil, err
	}

	data, err := query[borrowMarketData](ctx, c, "BorrowMarket", borrowMarketQuery, map[string]any{
		"oracleContract": c.addressProvider.Oracle,
		"oracleQuery":    oracleQuery,
	})
	if err != nil {
		return nil, fmt.Errorf("querying borrow market: %w", err)
	}

	price, err := decodeResult[anchor.OraclePrice](data.OraclePrice)
	if err != nil {
		return nil, fmt.Errorf("decoding oracle price: %w", err)
	}
	if price == nil {
		return nil, nil
	}
	return &anchor.BorrowMarket{OraclePrice: *price}, nil
}

// BorrowBorrower loads the loan and the collateral of address. It returns nil when either record is
// missing.
func (c *Client) BorrowBorrower(ctx context.Context, address string) (*anchor.BorrowBorrower, error) {
	if !validators.IsTerraAddress(address) {
		return nil, fmt.Errorf("invalid borrower address %q", address)
	}

	marketBorrowerQuery, err := queryMsg(map[string]any{
		"borrower_info": map[string]string{"borrower": address},
	})
	if err != nil {
		return nil, err
	}
	custodyBorrowerQuery, err := queryMsg(map[string]any{
		"borrower": map[string]string{"address": address},
	})
	if err != nil {
		return nil, err
	}

	data, err := query[borrowBorrowerData](ctx, c, "BorrowBorrower", borrowBorrowerQuery, map[string]any{
		"marketContract":       c.addressProvider.Market,
		"marketBorrowerQuery":  marketBorrowerQuery,
		"custodyContract":      c.addressProvider.Custody,
		"custodyBorrowerQuery": custodyBorrowerQuery,
	})
	if err != nil {
		return nil, fmt.Errorf("querying borrower %s: %w", address, err)
	}

	info, err := decodeResult[anchor.MarketBorrowerInfo](data.MarketBorrowerInfo)
	if err != nil {
		return nil, fmt.Errorf("decoding market borrower info: %w", err)
	}
	custody, err := decodeResult[anchor.CustodyBorrower](data.CustodyBorrower)
	if err != nil {
		return nil, fmt.Errorf("decoding custody borrower: %w", err)
	}
	if info == nil || custody == nil {
		return nil, nil
	}
	return &anchor.BorrowBorrower{MarketBorrowerInfo: *info, CustodyBorrower: *custody}, nil
}

func queryMsg(msg any) (string, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshalling contract query: %w", err)
	}
	return string(b), nil
}

func decodeResult[T any](r *ContractStoreResult) (*T, error) {
	if r == nil || r.Result == "" || r.Result == "null" {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal([]byte(r.Result), &v); err != nil {
		return nil, fmt.Errorf("unmarshalling contract store result: %w", err)
	}
	return &v, nil
}
