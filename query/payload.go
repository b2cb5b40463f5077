package query

import (
	"encoding/json"
	"fmt"
)

// EncodePayload serializes the payload as a JSON document.
func EncodePayload(payload map[string]any) ([]byte, error) {
	data, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func encodePayload(payload map[string]any) ([]byte, *Error) {
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: KindInput, Detail: "invalid_payload", Cause: fmt.Errorf("encode payload: %w", err)}
	}
	return data, nil
}
