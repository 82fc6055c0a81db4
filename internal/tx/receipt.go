package tx

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Receipt is a display line item summarizing one fact about a completed transaction.
type Receipt struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ReceiptSlot is an optional receipt. Slots whose figure could not be computed are kept in place with
// Valid set to false so the receipt order stays fixed per transaction type.
type ReceiptSlot struct {
	Receipt
	Valid bool
}

func NewReceipt(name, value string) ReceiptSlot {
	return ReceiptSlot{Receipt: Receipt{Name: name, Value: value}, Valid: true}
}

// NoReceipt is the absent slot.
func NoReceipt() ReceiptSlot {
	return ReceiptSlot{}
}

// MarshalJSON renders absent slots as null.
func (s ReceiptSlot) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Receipt)
}

func (s *ReceiptSlot) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = NoReceipt()
		return nil
	}
	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("unmarshalling receipt: %w", err)
	}
	*s = ReceiptSlot{Receipt: r, Valid: true}
	return nil
}

// VisibleReceipts drops the absent slots, keeping the order of the remaining ones.
func VisibleReceipts(slots []ReceiptSlot) []Receipt {
	receipts := make([]Receipt, 0, len(slots))
	for _, slot := range slots {
		if slot.Valid {
			receipts = append(receipts, slot.Receipt)
		}
	}
	return receipts
}
