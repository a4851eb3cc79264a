package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionKindValid(t *testing.T) {
	t.Parallel()

	for _, kind := range []OptionKind{OptionNotifications, OptionTheme, OptionTooltips, OptionDebug} {
		assert.True(t, kind.Valid(), "kind %q", kind)
	}
	assert.False(t, OptionKind("telemetry").Valid())
	assert.False(t, OptionKind("").Valid())
}

func TestDefaultPersistentOptionsCoversEveryKind(t *testing.T) {
	t.Parallel()

	defaults := DefaultPersistentOptions()
	for _, kind := range []OptionKind{OptionNotifications, OptionTheme, OptionTooltips, OptionDebug} {
		assert.Contains(t, defaults, kind)
		assert.True(t, json.Valid(defaults[kind]), "kind %q", kind)
	}
}

func TestMergeOptions(t *testing.T) {
	t.Parallel()

	t.Run("patch over empty storage", func(t *testing.T) {
		t.Parallel()

		merged := MergeOptions(nil, OptionTheme, json.RawMessage(`"dark"`))
		assert.JSONEq(t, `"dark"`, string(merged[OptionTheme]))
		assert.JSONEq(t, `{"enabled":true,"sound":true}`, string(merged[OptionNotifications]))
	})

	t.Run("stored values survive unrelated patch", func(t *testing.T) {
		t.Parallel()

		stored := PersistentOptions{OptionTheme: json.RawMessage(`"dark"`)}
		merged := MergeOptions(stored, OptionDebug, json.RawMessage(`true`))
		assert.JSONEq(t, `"dark"`, string(merged[OptionTheme]))
		assert.JSONEq(t, `true`, string(merged[OptionDebug]))
	})

	t.Run("patch replaces stored value", func(t *testing.T) {
		t.Parallel()

		stored := PersistentOptions{OptionTheme: json.RawMessage(`"dark"`)}
		merged := MergeOptions(stored, OptionTheme, json.RawMessage(`"light"`))
		assert.JSONEq(t, `"light"`, string(merged[OptionTheme]))
	})

	t.Run("unrecognized stored keys carry through", func(t *testing.T) {
		t.Parallel()

		stored := PersistentOptions{OptionKind("legacy"): json.RawMessage(`42`)}
		merged := MergeOptions(stored, OptionTheme, json.RawMessage(`"light"`))
		assert.JSONEq(t, `42`, string(merged[OptionKind("legacy")]))
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		t.Parallel()

		stored := PersistentOptions{OptionTheme: json.RawMessage(`"dark"`)}
		MergeOptions(stored, OptionTheme, json.RawMessage(`"light"`))
		assert.JSONEq(t, `"dark"`, string(stored[OptionTheme]))
	})
}
