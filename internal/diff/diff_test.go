package diff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everstacklabs/pricesync/internal/catalog"
)

const stubJSON = `{
	"params": [{"key": "max_tokens", "maxValue": 64000}],
	"type": {"primary": "chat", "supported": ["image", "pdf", "doc", "tools"]},
	"removeParams": ["top_p"]
}`

func mustParse(t *testing.T, s string) *catalog.Document {
	t.Helper()
	doc, err := catalog.Parse([]byte(s))
	require.NoError(t, err)
	return doc
}

func TestMissingModelsAppendedInSortedOrder(t *testing.T) {
	general := mustParse(t, `{"name": "OpenAI", "gpt-3": {"type": {"primary": "chat"}}}`)

	cs, err := Compute("general/openai.json", []string{"gpt-5", "gpt-4a"}, general)
	require.NoError(t, err)

	assert.True(t, cs.HasChanges())
	assert.Equal(t, []string{"gpt-4a", "gpt-5"}, cs.Missing)
	assert.Equal(t, []string{"name", "gpt-3", "gpt-4a", "gpt-5"}, cs.Catalog.Keys())
	assert.Equal(t, 0, cs.Present)
}

func TestNothingMissing(t *testing.T) {
	general := mustParse(t, `{"name": "Google", "gemini-2.5-pro": {}, "gemini-2.5-flash": {}}`)

	cs, err := Compute("general/google.json", []string{"gemini-2.5-flash", "gemini-2.5-pro"}, general)
	require.NoError(t, err)

	assert.False(t, cs.HasChanges())
	assert.Empty(t, cs.Missing)
	assert.Same(t, general, cs.Catalog)
	assert.Equal(t, 2, cs.Present)
}

func TestReservedKeysExcludedBothWays(t *testing.T) {
	tests := []struct {
		name        string
		pricing     []string
		general     string
		wantMissing []string
	}{
		{
			name:        "reserved pricing keys never reported",
			pricing:     []string{"name", "description", "default", "claude-4"},
			general:     `{"claude-4": {}}`,
			wantMissing: nil,
		},
		{
			name:        "reserved general keys never satisfy a model",
			pricing:     []string{"claude-4"},
			general:     `{"name": "Anthropic", "description": "d", "default": {}}`,
			wantMissing: []string{"claude-4"},
		},
		{
			name:        "reserved pricing key with empty general",
			pricing:     []string{"default"},
			general:     `{}`,
			wantMissing: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			general := mustParse(t, tt.general)
			cs, err := Compute("general/anthropic.json", tt.pricing, general)
			require.NoError(t, err)

			assert.Equal(t, tt.wantMissing, cs.Missing)
			for _, k := range []string{"name", "description", "default"} {
				if !general.Has(k) {
					assert.False(t, cs.Catalog.Has(k), "reserved key %q inserted", k)
				}
			}
		})
	}
}

func TestInsertedEntriesAreStubs(t *testing.T) {
	general := mustParse(t, `{"name": "xAI"}`)

	cs, err := Compute("general/xai.json", []string{"grok-4", "grok-3-mini"}, general)
	require.NoError(t, err)

	for _, k := range cs.Missing {
		raw, ok := cs.Catalog.Get(k)
		require.True(t, ok)
		assert.JSONEq(t, stubJSON, string(raw), k)
	}
}

func TestInsertedStubsDoNotShareStorage(t *testing.T) {
	general := mustParse(t, `{}`)

	cs, err := Compute("general/x.json", []string{"a", "b"}, general)
	require.NoError(t, err)

	a, _ := cs.Catalog.Get("a")
	b, _ := cs.Catalog.Get("b")
	a[0] = '['
	assert.JSONEq(t, stubJSON, string(b))
}

func TestGeneralDocumentNotMutated(t *testing.T) {
	general := mustParse(t, `{"name": "OpenAI", "gpt-4o": {"removeParams": ["top_k"]}}`)
	before, err := general.Encode()
	require.NoError(t, err)

	cs, err := Compute("general/openai.json", []string{"gpt-4o", "o3"}, general)
	require.NoError(t, err)
	require.True(t, cs.HasChanges())

	after, err := general.Encode()
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.NotSame(t, general, cs.Catalog)
}

func TestExistingValuesUntouched(t *testing.T) {
	general := mustParse(t, `{"default": {"x": 1}, "gpt-4o": {"params": [{"key": "temperature", "maxValue": 2}]}}`)

	cs, err := Compute("general/openai.json", []string{"gpt-4o", "gpt-4.1"}, general)
	require.NoError(t, err)

	for _, k := range general.Keys() {
		want, _ := general.Get(k)
		got, ok := cs.Catalog.Get(k)
		require.True(t, ok)
		assert.Equal(t, string(want), string(got), k)
	}
}

func TestDuplicatePricingKeysCountedOnce(t *testing.T) {
	general := mustParse(t, `{"m1": {}}`)

	cs, err := Compute("t", []string{"m2", "m1", "m2", "m1"}, general)
	require.NoError(t, err)

	assert.Equal(t, []string{"m2"}, cs.Missing)
	assert.Equal(t, 1, cs.Present)
}

func TestSortIsByteWise(t *testing.T) {
	general := mustParse(t, `{}`)

	cs, err := Compute("t", []string{"b", "B", "a-2", "a-10", "_x"}, general)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "_x", "a-10", "a-2", "b"}, cs.Missing)
}

func TestComputeIsIdempotent(t *testing.T) {
	general := mustParse(t, `{"name": "Mistral", "mistral-large": {}}`)
	pricing := []string{"mistral-small", "mistral-large", "codestral"}

	first, err := Compute("t", pricing, general)
	require.NoError(t, err)
	require.True(t, first.HasChanges())

	second, err := Compute("t", pricing, first.Catalog)
	require.NoError(t, err)
	assert.False(t, second.HasChanges())
	assert.Equal(t, 3, second.Present)

	a, err := first.Catalog.Encode()
	require.NoError(t, err)
	b, err := second.Catalog.Encode()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestStubIndependentOfPricingData(t *testing.T) {
	pricing := mustParse(t, `{"cheap": {"input": 0.1}, "pricey": {"input": 90, "max_tokens": 8}}`)
	general := mustParse(t, `{}`)

	cs, err := Compute("t", pricing.Keys(), general)
	require.NoError(t, err)

	cheap, _ := cs.Catalog.Get("cheap")
	pricey, _ := cs.Catalog.Get("pricey")
	assert.Equal(t, string(cheap), string(pricey))

	var stub catalog.Stub
	require.NoError(t, json.Unmarshal(pricey, &stub))
	assert.Equal(t, catalog.NewStub(), stub)
}
