package llm

import (
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/openai/openai-go"
)

func TestOpenAIReviewText(t *testing.T) {
	cases := []struct {
		name      string
		resp      *openai.ChatCompletion
		want      string
		truncated bool
		wantErr   bool
	}{
		{
			name: "content",
			resp: &openai.ChatCompletion{Choices: []openai.ChatCompletionChoice{
				{FinishReason: "stop", Message: openai.ChatCompletionMessage{Content: validResponse}},
			}},
			want: validResponse,
		},
		{
			name: "length",
			resp: &openai.ChatCompletion{Choices: []openai.ChatCompletionChoice{
				{FinishReason: "length", Message: openai.ChatCompletionMessage{Content: `{"findings": [`}},
			}},
			truncated: true,
			wantErr:   true,
		},
		{name: "no choices", resp: &openai.ChatCompletion{}, wantErr: true},
		{
			name: "empty content",
			resp: &openai.ChatCompletion{Choices: []openai.ChatCompletionChoice{
				{FinishReason: "stop"},
			}},
			wantErr: true,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := openaiReviewText(c.resp)
			if (err != nil) != c.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, c.wantErr)
			}
			if errors.Is(err, ErrTruncated) != c.truncated {
				t.Errorf("truncated = %v, want %v", !c.truncated, c.truncated)
			}
			if got != c.want {
				t.Errorf("text = %q, want %q", got, c.want)
			}
		})
	}
}

func TestGoogleReviewText(t *testing.T) {
	text := func(parts ...string) *genai.Content {
		c := &genai.Content{}
		for _, p := range parts {
			c.Parts = append(c.Parts, genai.Text(p))
		}
		return c
	}
	cases := []struct {
		name      string
		resp      *genai.GenerateContentResponse
		want      string
		truncated bool
		wantErr   bool
	}{
		{
			name: "joined parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: text(`{"summary":"",`, `"findings":[]}`), FinishReason: genai.FinishReasonStop},
			}},
			want: `{"summary":"","findings":[]}`,
		},
		{
			name: "max tokens",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: text(`{"findings":[`), FinishReason: genai.FinishReasonMaxTokens},
			}},
			truncated: true,
			wantErr:   true,
		},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: true},
		{name: "nil", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := googleReviewText(c.resp)
			if (err != nil) != c.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, c.wantErr)
			}
			if errors.Is(err, ErrTruncated) != c.truncated {
				t.Errorf("truncated = %v, want %v", !c.truncated, c.truncated)
			}
			if got != c.want {
				t.Errorf("text = %q, want %q", got, c.want)
			}
		})
	}
}
