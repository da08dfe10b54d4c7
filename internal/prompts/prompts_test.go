package prompts

import (
	"strings"
	"testing"
)

func TestNotFoundPhrasePresentInGroundedPrompt(t *testing.T) {
	for _, lang := range []string{"es", "en"} {
		p := GroundedAnswer(lang, "algo de contexto")
		if !strings.Contains(p, NotFound(lang)) {
			t.Errorf("%s: grounded prompt must embed the exact not-found phrase", lang)
		}
		if !strings.Contains(p, "algo de contexto") {
			t.Errorf("%s: grounded prompt must embed the context", lang)
		}
	}
}

func TestChunkSummaryNumbersFromOne(t *testing.T) {
	p := ChunkSummary("es", 3, "texto del fragmento")
	if !strings.Contains(p, "Parte 3") {
		t.Errorf("prompt=%q", p)
	}
	if !strings.Contains(p, "texto del fragmento") {
		t.Error("prompt must carry the chunk text")
	}
}

func TestCommunityManagerDefaults(t *testing.T) {
	p := CommunityManager(PostOptions{})
	for _, want := range []string{"journalist", "formal", "detailed", "es language"} {
		if !strings.Contains(p, want) {
			t.Errorf("default prompt missing %q", want)
		}
	}
	if strings.Contains(p, "{role}") || strings.Contains(p, "{customInstructions}") {
		t.Error("placeholders must be substituted")
	}
}

func TestCommunityManagerOverrides(t *testing.T) {
	p := CommunityManager(PostOptions{Role: "professor", Tone: "casual", Language: "en", CustomInstructions: "Sé breve."})
	for _, want := range []string{"professor", "casual", "en language", "Sé breve."} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestNewsDigestTaskJoinsPages(t *testing.T) {
	task := NewsDigestTask([]string{"página uno", "página dos"})
	if !strings.Contains(task, "página uno") || !strings.Contains(task, "página dos") {
		t.Errorf("task=%q", task)
	}
}
