package transactions

import (
	"github.com/shopspring/decimal"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/terra"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

const fromContractEvent = "from_contract"

// pickFromContract returns the from_contract event of the message at msgIndex. When it cannot be found,
// the failed rendering to end the run with is returned instead.
func pickFromContract(helper *tx.Helper, infos terra.TxInfos, msgIndex int) (terra.RawLogEvent, *tx.Rendering) {
	rawLog, ok := terra.PickRawLog(infos, msgIndex)
	if !ok {
		failed := helper.FailedToFindRawLog()
		return terra.RawLogEvent{}, &failed
	}

	event, ok := terra.PickEvent(rawLog, fromContractEvent)
	if !ok {
		failed := helper.FailedToFindEvents(fromContractEvent)
		return terra.RawLogEvent{}, &failed
	}
	return event, nil
}

// amountReceipt renders the micro amount at attribute position index. The receipt is absent when the
// attribute is missing; a value that is not a number is an error.
func amountReceipt(event terra.RawLogEvent, index int, name string, format func(decimal.Decimal) string, unit string) (tx.ReceiptSlot, error) {
	value, ok := terra.PickAttributeValue(event, index)
	if !ok || value == "" {
		return tx.NoReceipt(), nil
	}
	return microReceipt(name, value, format, unit)
}

func microReceipt(name, microAmount string, format func(decimal.Decimal) string, unit string) (tx.ReceiptSlot, error) {
	amount, err := anchor.Demicrofy(microAmount)
	if err != nil {
		return tx.NoReceipt(), err
	}
	return tx.NewReceipt(name, format(amount)+" "+unit), nil
}
