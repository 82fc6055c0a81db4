package terra

import (
	"encoding/json"
	"fmt"
)

// RawLogAttribute is a single key/value emitted by a contract.
type RawLogAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RawLogEvent groups the attributes of one event type (e.g. "from_contract").
type RawLogEvent struct {
	Type       string            `json:"type"`
	Attributes []RawLogAttribute `json:"attributes"`
}

// RawLogMsg is the log of one message of a transaction.
type RawLogMsg struct {
	MsgIndex int           `json:"msg_index"`
	Log      string        `json:"log"`
	Events   []RawLogEvent `json:"events"`
}

// ParseRawLog decodes the RawLog of a successful TxInfo.
func ParseRawLog(rawLog string) ([]RawLogMsg, error) {
	var msgs []RawLogMsg
	if err := json.Unmarshal([]byte(rawLog), &msgs); err != nil {
		return nil, fmt.Errorf("unmarshalling raw log: %w", err)
	}
	return msgs, nil
}

// PickRawLog returns the log of the message at index within the first record. The second
// value is false when there is no record, the log is not decodable, or the index is out of range.
func PickRawLog(infos TxInfos, index int) (RawLogMsg, bool) {
	if len(infos) == 0 {
		return RawLogMsg{}, false
	}

	msgs, err := ParseRawLog(infos[0].RawLog)
	if err != nil || index < 0 || index >= len(msgs) {
		return RawLogMsg{}, false
	}
	return msgs[index], true
}

// PickEvent returns the first event of the given type.
func PickEvent(rawLog RawLogMsg, eventType string) (RawLogEvent, bool) {
	for _, event := range rawLog.Events {
		if event.Type == eventType {
			return event, true
		}
	}
	return RawLogEvent{}, false
}

// PickAttributeValue returns the value of the attribute at the given position. Positions are tied to
// the contract's event layout.
func PickAttributeValue(event RawLogEvent, index int) (string, bool) {
	if index < 0 || index >= len(event.Attributes) {
		return "", false
	}
	return event.Attributes[index].Value, true
}
