package geminiservice

/* =================================================================================
							GEMINI SCHEMA DEFINITION
	Used only in structured-output mode to pin the reply to an array of plan items
=================================================================================*/

// GeminiSchema defines the structure for "Controlled Generation" (Structured Output).
type GeminiSchema struct {
	// Type defines the data type (e.g., "OBJECT", "ARRAY", "STRING").
	Type string `json:"type"`

	// Description explains the field's purpose to the model.
	Description string `json:"description,omitempty"`

	// Properties maps field names to their child schemas (used when Type is "OBJECT").
	Properties map[string]*GeminiSchema `json:"properties,omitempty"`

	// Items defines the schema for elements within an array (used when Type is "ARRAY").
	Items *GeminiSchema `json:"items,omitempty"`

	// Required lists the field names the model MUST include.
	Required []string `json:"required,omitempty"`
}

// PlanSchema describes the reply both plan routes expect: a JSON array of
// {title, detail} objects.
var PlanSchema = &GeminiSchema{
	Type:        "ARRAY",
	Description: "Ordered plan items. One element per meal or workout segment.",
	Items: &GeminiSchema{
		Type: "OBJECT",
		Properties: map[string]*GeminiSchema{
			"title": {
				Type:        "STRING",
				Description: "Short heading, e.g. a meal slot or workout phase.",
			},
			"detail": {
				Type:        "STRING",
				Description: "Concrete content of the item, ending with a one-line caution.",
			},
		},
		Required: []string{"title", "detail"},
	},
}
