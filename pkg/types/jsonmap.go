package types

// JSONMap is a free-form jsonb payload (gateway metadata, event payloads).
type JSONMap map[string]any
