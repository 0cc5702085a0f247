package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "prose around", raw: "Sure! Here it is: {\"a\":{\"b\":2}} enjoy", want: `{"a":{"b":2}}`},
		{name: "code fence", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "missing", raw: "no json here", wantErr: true},
		{name: "reversed", raw: "} oops {", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	got, err := ExtractJSONArray("```\n[{\"x\":1},{\"x\":2}]\n```")
	require.NoError(t, err)
	assert.Equal(t, `[{"x":1},{"x":2}]`, got)
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	assert.NoError(t, ParseJSON(`{"a":1}  `, &v))
	assert.Error(t, ParseJSON(`{"a":1} {"b":2}`, &v))
}

func TestQuoteJSONKeys(t *testing.T) {
	assert.Equal(t, `{"name": "x", "n": 1}`, QuoteJSONKeys(`{name: "x", n: 1}`))
}

func TestSplitCommaList(t *testing.T) {
	assert.Equal(t, []string{"peanuts", "Shellfish"}, SplitCommaList(" peanuts, ,Shellfish,PEANUTS "))
	assert.Nil(t, SplitCommaList(" , "))
}

func TestLanguagePick(t *testing.T) {
	assert.Equal(t, LangAR, ParseLanguage("AR"))
	assert.Equal(t, LangEN, ParseLanguage("fr"))
	assert.Equal(t, "مرحبا", LangAR.Pick("hello", "مرحبا"))
	assert.Equal(t, "hello", LangAR.Pick("hello", ""))
	assert.Equal(t, "hello", LangEN.Pick("hello", "مرحبا"))
}
