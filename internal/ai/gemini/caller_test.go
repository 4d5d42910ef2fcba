package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New(context.Background(), "  "); err == nil {
		t.Error("expected error for blank api key")
	}
}

func TestIsRateLimited(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"api error 429", genai.APIError{Code: 429, Message: "quota"}, true},
		{"api error 500", genai.APIError{Code: 500, Message: "boom"}, false},
		{"resource exhausted text", errors.New("rpc error: RESOURCE_EXHAUSTED"), true},
		{"plain failure", errors.New("connection reset"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRateLimited(tc.err); got != tc.want {
				t.Errorf("isRateLimited(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestResultSchema_RequiredFields(t *testing.T) {
	required := map[string]bool{}
	for _, f := range resultSchema.Required {
		required[f] = true
	}

	for _, f := range []string{"candidateName", "matchScore", "summary", "city", "neighborhood", "phoneNumbers", "pros", "cons", "workHistory"} {
		if !required[f] {
			t.Errorf("schema missing required field %s", f)
		}
		if _, ok := resultSchema.Properties[f]; !ok {
			t.Errorf("schema missing property %s", f)
		}
	}
}
