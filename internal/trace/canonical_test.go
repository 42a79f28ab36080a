package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	b, err := MarshalCanonicalValue(map[string]any{
		"zebra": 1,
		"alpha": 2,
		"mango": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"mango":3,"zebra":1}`, string(b))
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	b, err := MarshalCanonicalValue("a < b && c > d")
	require.NoError(t, err)
	assert.Equal(t, `"a < b && c > d"`, string(b))
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// "é" as e + COMBINING ACUTE ACCENT normalizes to the precomposed
	// form, so both spellings marshal identically.
	composed := "café"
	decomposed := "café"

	b1, err := MarshalCanonicalValue(composed)
	require.NoError(t, err)
	b2, err := MarshalCanonicalValue(decomposed)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestMarshalCanonicalForbidden(t *testing.T) {
	_, err := MarshalCanonicalValue(nil)
	assert.Error(t, err)

	_, err = MarshalCanonicalValue(3.14)
	assert.Error(t, err)

	_, err = MarshalCanonicalValue(map[string]any{"x": []any{1.5}})
	assert.Error(t, err)

	_, err = MarshalCanonicalValue(struct{}{})
	assert.Error(t, err)
}

func TestMarshalCanonicalNested(t *testing.T) {
	b, err := MarshalCanonicalValue(map[string]any{
		"events": []any{
			map[string]any{"seq": int64(1), "type": "activated"},
			map[string]any{"seq": int64(2), "type": "completed"},
		},
		"ok": true,
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"events":[{"seq":1,"type":"activated"},{"seq":2,"type":"completed"}],"ok":true}`,
		string(b))
}

func TestSnapshotMarshalCanonical(t *testing.T) {
	snap := &Snapshot{
		Scenario: "demo",
		Token:    "run-1",
		Events: []Event{
			{Seq: 1, Tick: 1, Type: EventActivated, Step: "a"},
			{Seq: 2, Tick: 1, Type: EventCompleted, Step: "a"},
		},
	}
	b, err := snap.MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"events":[{"seq":1,"step":"a","tick":1,"type":"activated"},{"seq":2,"step":"a","tick":1,"type":"completed"}],"scenario":"demo","token":"run-1"}`,
		string(b))

	// Deterministic: a second marshal is byte-identical.
	b2, err := snap.MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t, b, b2)
}
