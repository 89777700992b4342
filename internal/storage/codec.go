package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"docrag/internal/apperrors"
)

// timeLayout is fixed-width UTC so that lexical order on created_at equals
// chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Rows written by other tools may use plain RFC 3339
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
		}
	}
	return t.UTC(), nil
}

// EncodeEmbedding serialises a vector as a JSON array of float32 values.
// encoding/json prints float32 with the shortest representation that parses
// back to the same float32.
func EncodeEmbedding(vec []float32) (string, error) {
	if vec == nil {
		vec = []float32{}
	}
	raw, err := json.Marshal(vec)
	if err != nil {
		return "", apperrors.Storage("encode embedding", err)
	}
	return string(raw), nil
}

// DecodeEmbedding parses a vector written by EncodeEmbedding.
func DecodeEmbedding(s string) ([]float32, error) {
	var vec []float32
	if err := json.Unmarshal([]byte(s), &vec); err != nil {
		return nil, apperrors.Encoding("decode embedding", err)
	}
	if vec == nil {
		return nil, apperrors.Encoding("decode embedding", fmt.Errorf("expected array, got %q", s))
	}
	return vec, nil
}
