package domain

import "encoding/json"

// OptionKind enumerates the per-account preference record keys.
type OptionKind string

const (
	OptionNotifications OptionKind = "notifications"
	OptionTheme         OptionKind = "theme"
	OptionTooltips      OptionKind = "tooltips"
	OptionDebug         OptionKind = "debug"
)

func (k OptionKind) Valid() bool {
	switch k {
	case OptionNotifications, OptionTheme, OptionTooltips, OptionDebug:
		return true
	default:
		return false
	}
}

// PersistentOptions maps option kinds to their JSON-encoded values.
// A materialized record always contains every recognized kind.
type PersistentOptions map[OptionKind]json.RawMessage

// DefaultPersistentOptions returns the full default record.
func DefaultPersistentOptions() PersistentOptions {
	return PersistentOptions{
		OptionNotifications: json.RawMessage(`{"enabled":true,"sound":true}`),
		OptionTheme:         json.RawMessage(`"system"`),
		OptionTooltips:      json.RawMessage(`[]`),
		OptionDebug:         json.RawMessage(`false`),
	}
}

// MergeOptions layers the stored record over the full default record,
// then applies the single-key patch on top. Keys present in storage but
// no longer recognized are carried through untouched.
func MergeOptions(stored PersistentOptions, kind OptionKind, payload json.RawMessage) PersistentOptions {
	merged := DefaultPersistentOptions()
	for k, v := range stored {
		merged[k] = v
	}
	merged[kind] = payload

	return merged
}
