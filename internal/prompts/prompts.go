// Package prompts holds the instruction templates sent to the language model
// and the fixed user-facing phrases tied to them.
package prompts

import "fmt"

// NotFound phrases are a behavioral contract: the grounded-answer prompt
// instructs the model to reply with exactly this text when the retrieved
// context does not contain the answer, and tests assert on it.
const (
	notFoundES = "No encontrado en el documento"
	notFoundEN = "Not found in the document"

	noDocumentsES = "Aún no hay documentos cargados en esta sesión. Sube un documento para poder responder preguntas sobre él."
	noDocumentsEN = "No documents have been uploaded for this session yet. Upload a document to ask questions about it."
)

// NotFound returns the exact fallback phrase for lang ("es" or "en").
func NotFound(lang string) string {
	if lang == "en" {
		return notFoundEN
	}
	return notFoundES
}

// NoDocuments returns the notice shown when a session has no indexed document.
func NoDocuments(lang string) string {
	if lang == "en" {
		return noDocumentsEN
	}
	return noDocumentsES
}

// DocumentAssistant is the system prompt for chunk summarization: the
// assistant may only speak from the uploaded document.
func DocumentAssistant(lang string) string {
	if lang == "en" {
		return "You are an assistant that answers exclusively from the uploaded document. If it is not in the document, reply '" + notFoundEN + "'."
	}
	return "Eres un asistente que responde exclusivamente en base al documento cargado. Si no está en el documento, responde '" + notFoundES + "'."
}

// ChunkSummary builds the per-chunk summarization instruction. chunk is the
// 1-based position of text within the document.
func ChunkSummary(lang string, chunk int, text string) string {
	if lang == "en" {
		return fmt.Sprintf("Part %d of the document:\n\n%s\n\nSummarize it in 5 bullet points.", chunk, text)
	}
	return fmt.Sprintf("Parte %d del documento:\n\n%s\n\nHaz un resumen en 5 viñetas.", chunk, text)
}

// GroundedAnswer builds the strict system prompt for retrieval-augmented
// answers: the model must answer only from context and fall back to the exact
// not-found phrase otherwise.
func GroundedAnswer(lang, context string) string {
	if lang == "en" {
		return "You are an assistant that answers exclusively from the provided CONTEXT. If the answer is not in the context, reply exactly: '" + notFoundEN + "'.\n\nCONTEXT:\n" + context
	}
	return "Eres un asistente que responde exclusivamente en base al CONTEXTO proporcionado. Si la respuesta no está en el contexto, responde exactamente: '" + notFoundES + "'.\n\nCONTEXTO:\n" + context
}

// ImagePrompt derives an illustration request from a chunk summary.
func ImagePrompt(summary string) string {
	return "Ilustración editorial, limpia y sin texto, que represente lo siguiente:\n\n" + summary
}
