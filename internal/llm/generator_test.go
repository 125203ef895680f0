package llm

import (
	"strings"
	"testing"

	"github.com/careerpath/advisor/internal/models"
)

func TestBuildPrompt(t *testing.T) {
	chunks := []models.Chunk{
		{Content: "Software engineers write code."},
		{Content: "They also review designs."},
	}
	got := BuildPrompt("What do software engineers do?", chunks)
	want := "Use the following pieces of context to answer the question at the end. " +
		"If you don't know the answer, just say that you don't know, don't try to make up an answer.\n\n" +
		"Software engineers write code.\n\nThey also review designs.\n\n" +
		"Question: What do software engineers do?\nHelpful Answer:"
	if got != want {
		t.Errorf("BuildPrompt mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestBuildPrompt_noChunks(t *testing.T) {
	got := BuildPrompt("Anything?", nil)
	if !strings.Contains(got, "\n\n\n\nQuestion: Anything?\nHelpful Answer:") {
		t.Errorf("empty context should leave a blank context section: %q", got)
	}
}

func TestBuildPrompt_placeholdersInQuestion(t *testing.T) {
	got := BuildPrompt("what is {context}?", []models.Chunk{{Content: "ctx"}})
	if !strings.Contains(got, "Question: what is {context}?") {
		t.Errorf("question text must be inserted verbatim: %q", got)
	}
}
