package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogEntry_WithField(t *testing.T) {
	tests := []struct {
		name  string
		entry *LogEntry
		key   string
		value any
		want  map[string]any
	}{
		{
			name:  "initialises nil fields",
			entry: &LogEntry{},
			key:   "parcel_number",
			value: "PK11",
			want:  map[string]any{"parcel_number": "PK11"},
		},
		{
			name:  "keeps existing fields",
			entry: &LogEntry{Fields: map[string]any{"session_id": "s-1"}},
			key:   "records",
			value: 4,
			want:  map[string]any{"session_id": "s-1", "records": 4},
		},
		{
			name:  "overwrites a field",
			entry: &LogEntry{Fields: map[string]any{"status": "pending"}},
			key:   "status",
			value: "received",
			want:  map[string]any{"status": "received"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.entry.WithField(tt.key, tt.value)
			assert.Same(t, tt.entry, result)
			assert.Equal(t, tt.want, result.Fields)
		})
	}
}

func TestLogEntry_WithFields(t *testing.T) {
	entry := (&LogEntry{ActionType: ActionReceiveParcel}).
		WithFields(map[string]any{"parcel_number": "PK11", "pallet": "P-01"})

	assert.Equal(t, "PK11", entry.Fields["parcel_number"])
	assert.Equal(t, "P-01", entry.Fields["pallet"])
	assert.Equal(t, ActionReceiveParcel, entry.ActionType)
}
