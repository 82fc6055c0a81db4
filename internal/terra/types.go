package terra

import (
	"encoding/json"
)

// Coin is an amount of a native denomination, e.g. {"uusd", "1000000"}.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// Msg is a wasm MsgExecuteContract, the only message type the lending protocol front-end sends.
type Msg struct {
	Sender     string          `json:"sender"`
	Contract   string          `json:"contract"`
	ExecuteMsg json.RawMessage `json:"execute_msg"`
	Coins      []Coin          `json:"coins,omitempty"`
}

// Fee is the StdFee descriptor: a gas limit and the fee amount in the "<amount><denom>" coin notation.
type Fee struct {
	Gas    int64  `json:"gas"`
	Amount string `json:"amount"`
}

// TxOptions is the provider-ready payload handed to the wallet for signing and broadcasting.
type TxOptions struct {
	Msgs          []Msg   `json:"msgs"`
	Fee           Fee     `json:"fee"`
	GasAdjustment float64 `json:"gasAdjustment"`
}

// TxResult is what the wallet answers once it broadcast the signed transaction.
type TxResult struct {
	TxHash  string `json:"txhash"`
	Height  int64  `json:"height,omitempty"`
	RawLog  string `json:"raw_log,omitempty"`
	Success bool   `json:"success"`
}

// TxInfo is the inclusion record returned by the chain-query gateway.
type TxInfo struct {
	TxHash  string `json:"TxHash"`
	Success bool   `json:"Success"`
	// When Success is true RawLog holds the JSON encoded list of RawLogMsg,
	// otherwise it holds the chain's error message.
	RawLog string `json:"RawLog"`
}

// TxInfos is the list of records the gateway returns for a hash. An empty list means the
// transaction was not included yet.
type TxInfos []TxInfo

// FirstFailure returns the first record that did not succeed on chain.
func (infos TxInfos) FirstFailure() (TxInfo, bool) {
	for _, info := range infos {
		if !info.Success {
			return info, true
		}
	}
	return TxInfo{}, false
}
