package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PlanRequest is the body accepted by both plan routes. The three fields are
// opaque to the relay: whatever JSON the caller sends is embedded verbatim
// (compacted) in the prompt.
type PlanRequest struct {
	User    json.RawMessage `json:"user,omitempty"`
	Summary json.RawMessage `json:"summary,omitempty"`
	Request json.RawMessage `json:"request,omitempty"`
}

// Kind selects the prompt template.
type Kind string

const (
	KindMeal    Kind = "meal"
	KindWorkout Kind = "workout"
)

/* =================================================================================
								PROMPT TEMPLATES
	Placeholders, in order: user, summary, request (each as compact JSON).
=================================================================================*/

const mealPromptTemplate = `あなたはフィットネスアプリAPEXFITの食事プランAIです。
出力は必ずJSON配列のみ。各要素は { "title": string, "detail": string }。
日本語、簡潔、現実的。

ユーザー情報: %s
直近サマリー: %s
要望: %s

制約:
- 1日の食事案（朝/昼/夜/間食）を提案
- カロリー目標に寄せる（指定がなければ2000kcal目安）
- アレルギー等は不明なので注意文をdetail末尾に1行入れる`

const workoutPromptTemplate = `あなたはフィットネスアプリAPEXFITのワークアウトAIです。
出力は必ずJSON配列のみ。各要素は { "title": string, "detail": string }。
日本語、簡潔、現実的。

ユーザー情報: %s
直近サマリー: %s
要望: %s

制約:
- 1回分のメニュー（準備運動→メイン→クールダウン）
- 初心者〜中級者向け、無理しない注意をdetail末尾に1行`

// BuildMealPrompt renders the meal-plan instruction for req.
func BuildMealPrompt(req PlanRequest) string {
	return render(mealPromptTemplate, req)
}

// BuildWorkoutPrompt renders the workout-plan instruction for req.
func BuildWorkoutPrompt(req PlanRequest) string {
	return render(workoutPromptTemplate, req)
}

// Prompt dispatches to the template for k.
func (k Kind) Prompt(req PlanRequest) (string, error) {
	switch k {
	case KindMeal:
		return BuildMealPrompt(req), nil
	case KindWorkout:
		return BuildWorkoutPrompt(req), nil
	default:
		return "", fmt.Errorf("unknown plan kind: %q", string(k))
	}
}

func render(tmpl string, req PlanRequest) string {
	return fmt.Sprintf(tmpl, stringify(req.User), stringify(req.Summary), stringify(req.Request))
}

// stringify emits a field as compact JSON. An absent field becomes "{}",
// an explicit null stays "null".
func stringify(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
