package planner

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMealPromptEmbedsFields(t *testing.T) {
	req := PlanRequest{
		User:    json.RawMessage(`{ "age": 30, "goal": "減量" }`),
		Summary: json.RawMessage(`{"kcal":1800}`),
		Request: json.RawMessage(`"高タンパクで"`),
	}

	prompt := BuildMealPrompt(req)

	assert.True(t, strings.HasPrefix(prompt, "あなたはフィットネスアプリAPEXFITの食事プランAIです。"))
	assert.Contains(t, prompt, `ユーザー情報: {"age":30,"goal":"減量"}`)
	assert.Contains(t, prompt, `直近サマリー: {"kcal":1800}`)
	assert.Contains(t, prompt, `要望: "高タンパクで"`)
	assert.Contains(t, prompt, "2000kcal")
	assert.Contains(t, prompt, "朝/昼/夜/間食")
	assert.False(t, strings.HasSuffix(prompt, "\n"))
}

func TestBuildWorkoutPromptEmbedsFields(t *testing.T) {
	req := PlanRequest{User: json.RawMessage(`{"level":"beginner"}`)}

	prompt := BuildWorkoutPrompt(req)

	assert.True(t, strings.HasPrefix(prompt, "あなたはフィットネスアプリAPEXFITのワークアウトAIです。"))
	assert.Contains(t, prompt, `ユーザー情報: {"level":"beginner"}`)
	assert.Contains(t, prompt, "準備運動→メイン→クールダウン")
	assert.NotContains(t, prompt, "2000kcal")
}

func TestPromptsAreDeterministic(t *testing.T) {
	req := PlanRequest{
		User:    json.RawMessage(`{"b":1,"a":[1,2,{"z":null}]}`),
		Summary: json.RawMessage(`{}`),
		Request: json.RawMessage(`{"text":"軽め"}`),
	}

	assert.Equal(t, BuildMealPrompt(req), BuildMealPrompt(req))
	assert.Equal(t, BuildWorkoutPrompt(req), BuildWorkoutPrompt(req))
	assert.NotEqual(t, BuildMealPrompt(req), BuildWorkoutPrompt(req))

	// Key order from the caller is preserved.
	assert.Contains(t, BuildMealPrompt(req), `{"b":1,"a":[1,2,{"z":null}]}`)
}

func TestStringifyDefaults(t *testing.T) {
	assert.Equal(t, "{}", stringify(nil))
	assert.Equal(t, "{}", stringify(json.RawMessage("  ")))
	assert.Equal(t, "null", stringify(json.RawMessage("null")))
	assert.Equal(t, `[1,2]`, stringify(json.RawMessage("[ 1,\n 2 ]")))
}

func TestEmptyRequestUsesEmptyObjects(t *testing.T) {
	prompt := BuildMealPrompt(PlanRequest{})

	assert.Contains(t, prompt, "ユーザー情報: {}")
	assert.Contains(t, prompt, "直近サマリー: {}")
	assert.Contains(t, prompt, "要望: {}")
}

func TestPlanRequestDecodeNull(t *testing.T) {
	var req PlanRequest
	require.NoError(t, json.Unmarshal([]byte(`{"user":null}`), &req))

	assert.Contains(t, BuildMealPrompt(req), "ユーザー情報: null")
	assert.Contains(t, BuildMealPrompt(req), "直近サマリー: {}")
}

func TestKindPrompt(t *testing.T) {
	req := PlanRequest{}

	meal, err := KindMeal.Prompt(req)
	require.NoError(t, err)
	assert.Equal(t, BuildMealPrompt(req), meal)

	workout, err := KindWorkout.Prompt(req)
	require.NoError(t, err)
	assert.Equal(t, BuildWorkoutPrompt(req), workout)

	_, err = Kind("yoga").Prompt(req)
	assert.Error(t, err)
}
