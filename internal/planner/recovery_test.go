package planner

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeItems(t *testing.T, plan Plan) []PlanItem {
	t.Helper()
	items := make([]PlanItem, 0, len(plan))
	for _, raw := range plan {
		var item PlanItem
		require.NoError(t, json.Unmarshal(raw, &item))
		items = append(items, item)
	}
	return items
}

func TestBracketSpanRecover(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []PlanItem
	}{
		{
			name: "bare array",
			text: `[{"title":"A","detail":"B"}]`,
			want: []PlanItem{{Title: "A", Detail: "B"}},
		},
		{
			name: "array wrapped in prose",
			text: "Here is your plan:\n[{\"title\":\"A\",\"detail\":\"B\"}]\nEnjoy!",
			want: []PlanItem{{Title: "A", Detail: "B"}},
		},
		{
			name: "markdown fence",
			text: "```json\n[{\"title\":\"朝食\",\"detail\":\"納豆ご飯\"},{\"title\":\"昼食\",\"detail\":\"サラダ\"}]\n```",
			want: []PlanItem{{Title: "朝食", Detail: "納豆ご飯"}, {Title: "昼食", Detail: "サラダ"}},
		},
		{
			name: "nested arrays inside items",
			text: `[{"title":"A","detail":"B","tags":["x","y"]}]`,
			want: []PlanItem{{Title: "A", Detail: "B"}},
		},
		{
			name: "empty array",
			text: `[]`,
			want: []PlanItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := BracketSpan{}.Recover(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, decodeItems(t, plan))
		})
	}
}

func TestBracketSpanKeepsUnknownFields(t *testing.T) {
	plan, err := BracketSpan{}.Recover(`[{"title":"A","detail":"B","kcal":500}]`)
	require.NoError(t, err)

	out, err := json.Marshal(plan)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title":"A","detail":"B","kcal":500}]`, string(out))
}

func TestBracketSpanFailures(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "no brackets", text: "Sorry, I cannot help."},
		{name: "object instead of array", text: `{"title":"A","detail":"B"}`},
		{name: "json null", text: "null"},
		{name: "empty reply", text: ""},
		{name: "greedy span spans two arrays", text: "first [1] and then [2]"},
		{name: "truncated output", text: `[{"title":"A","detail":"B"},{"title":"C"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := BracketSpan{}.Recover(tt.text)
			assert.Nil(t, plan)

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, "AI output parse failed", fe.Error())
			assert.Equal(t, tt.text, fe.Raw)
		})
	}
}

func TestFormatErrorTruncatesRaw(t *testing.T) {
	long := strings.Repeat("あ", 1000)

	_, err := BracketSpan{}.Recover(long)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, RawSnippetLimit, len([]rune(fe.Raw)))
	assert.Equal(t, strings.Repeat("あ", RawSnippetLimit), fe.Raw)
}

func TestFormatErrorUnwrap(t *testing.T) {
	_, err := BracketSpan{}.Recover(`{"a":1}`)
	assert.ErrorIs(t, err, errNotArray)
}

func TestStrictJSONRecover(t *testing.T) {
	plan, err := StrictJSON{}.Recover("```json\n[{\"title\":\"A\",\"detail\":\"B\"}]\n```")
	require.NoError(t, err)
	assert.Equal(t, []PlanItem{{Title: "A", Detail: "B"}}, decodeItems(t, plan))

	_, err = StrictJSON{}.Recover("Here is your plan:\n[{\"title\":\"A\",\"detail\":\"B\"}]")
	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "", truncate("abc", 0))
	assert.Equal(t, "日本", truncate("日本語", 2))
	assert.Equal(t, "😀😀", truncate("😀😀😀", 2))
}
