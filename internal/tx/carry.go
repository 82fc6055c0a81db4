package tx

import (
	"github.com/anchor-protocol/anchor-txs/internal/terra"
)

// Carry is the accumulator shared by every transaction type. It gains TxResult after posting and
// TxInfos after polling. Transaction types embed it and add the data they fetch.
type Carry struct {
	TxOptions terra.TxOptions
	TxResult  terra.TxResult
	TxInfos   terra.TxInfos
}

func (c *Carry) Base() *Carry {
	return c
}

// Carrier is implemented by pointers to accumulators embedding Carry.
type Carrier interface {
	Base() *Carry
}

var _ Carrier = (*Carry)(nil)
