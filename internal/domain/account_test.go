package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMostRecentlyOpened(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		accounts []AccountMetadata
		want     AccountID
		found    bool
	}{
		{
			name:  "empty list",
			found: false,
		},
		{
			name:     "single account",
			accounts: []AccountMetadata{{ID: "only", LastOpened: base}},
			want:     "only",
			found:    true,
		},
		{
			name: "latest wins",
			accounts: []AccountMetadata{
				{ID: "a", LastOpened: base.Add(10 * time.Minute)},
				{ID: "b", LastOpened: base.Add(20 * time.Minute)},
				{ID: "c", LastOpened: base},
			},
			want:  "b",
			found: true,
		},
		{
			name: "equal timestamps keep list order",
			accounts: []AccountMetadata{
				{ID: "first", LastOpened: base},
				{ID: "second", LastOpened: base},
			},
			want:  "first",
			found: true,
		},
		{
			name: "never opened accounts share the zero time",
			accounts: []AccountMetadata{
				{ID: "first"},
				{ID: "second"},
			},
			want:  "first",
			found: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			selected, ok := MostRecentlyOpened(tt.accounts)
			require.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, selected.ID)
			}
		})
	}
}
