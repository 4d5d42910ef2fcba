package gemini

import "google.golang.org/genai"

// resultSchema constrains the model output to the analysis result shape.
// Keeping the schema on the wire (instead of trusting the prompt) is what
// lets the scorer treat a schema violation as a plain advance-the-chain
// failure.
var resultSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"candidateName": {Type: genai.TypeString},
		"matchScore":    {Type: genai.TypeNumber},
		"summary":       {Type: genai.TypeString},
		"city":          {Type: genai.TypeString},
		"neighborhood":  {Type: genai.TypeString},
		"phoneNumbers": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"pros": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"cons": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"yearsExperience": {Type: genai.TypeString},
		"workHistory": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"company":  {Type: genai.TypeString},
					"role":     {Type: genai.TypeString},
					"duration": {Type: genai.TypeString},
				},
				Required: []string{"company", "role", "duration"},
			},
		},
	},
	Required: []string{
		"candidateName", "matchScore", "summary", "city", "neighborhood",
		"phoneNumbers", "pros", "cons", "workHistory",
	},
}
