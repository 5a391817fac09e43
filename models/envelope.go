package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CurrentSchemaVersion is written into every envelope stored by this build.
// Version 0 denotes a bare object without an envelope.
const CurrentSchemaVersion = 1

// ErrUnsupportedSchemaVersion is returned when a stored payload was written by a newer schema
var ErrUnsupportedSchemaVersion = errors.New("unsupported schema version")

// Envelope tags a serialized payload with the schema version it was written with
type Envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// MarshalVersioned wraps v in an envelope carrying CurrentSchemaVersion
func MarshalVersioned(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return json.Marshal(Envelope{Version: CurrentSchemaVersion, Data: data})
}

// UnmarshalVersioned decodes an envelope (or a bare version 0 object) into v
// and returns the schema version it was stored with
func UnmarshalVersioned(raw []byte, v any) (int, error) {
	var probe struct {
		Version *int            `json:"version"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return 0, fmt.Errorf("failed to decode envelope: %w", err)
	}

	if probe.Version == nil {
		if err := json.Unmarshal(raw, v); err != nil {
			return 0, fmt.Errorf("failed to decode unversioned payload: %w", err)
		}
		return 0, nil
	}

	version := *probe.Version
	if version < 1 || version > CurrentSchemaVersion {
		return version, fmt.Errorf("%w: %d", ErrUnsupportedSchemaVersion, version)
	}

	if len(probe.Data) == 0 {
		return version, fmt.Errorf("envelope version %d has no data", version)
	}

	if err := json.Unmarshal(probe.Data, v); err != nil {
		return version, fmt.Errorf("failed to decode payload version %d: %w", version, err)
	}

	return version, nil
}
