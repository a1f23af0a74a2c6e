package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/cardpolicy/internal/ir"
)

// marshalHeaders converts the header row to canonical JSON TEXT.
func marshalHeaders(headers []string) (string, error) {
	if headers == nil {
		headers = []string{}
	}
	data, err := ir.MarshalCanonical(headers)
	if err != nil {
		return "", fmt.Errorf("marshal headers: %w", err)
	}
	return string(data), nil
}

// marshalCells converts one row to canonical JSON TEXT.
func marshalCells(cells map[string]string) (string, error) {
	if cells == nil {
		cells = map[string]string{}
	}
	data, err := ir.MarshalCanonical(cells)
	if err != nil {
		return "", fmt.Errorf("marshal cells: %w", err)
	}
	return string(data), nil
}

func unmarshalHeaders(data string) ([]string, error) {
	headers := []string{}
	if err := json.Unmarshal([]byte(data), &headers); err != nil {
		return nil, fmt.Errorf("unmarshal headers: %w", err)
	}
	return headers, nil
}

func unmarshalCells(data string) (map[string]string, error) {
	cells := map[string]string{}
	if err := json.Unmarshal([]byte(data), &cells); err != nil {
		return nil, fmt.Errorf("unmarshal cells: %w", err)
	}
	return cells, nil
}
