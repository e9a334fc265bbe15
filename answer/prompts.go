package answer

import (
	"strings"
)

const systemPrompt = "You are a helpful assistant answering questions about an indexed document collection. Ground your answer in the provided context; when the context does not cover the question, say so rather than inventing details."

func directPrompt(query string) string {
	var sb strings.Builder
	sb.WriteString("Question:\n")
	sb.WriteString(query)
	sb.WriteString("\n\nNo indexed context matched this question. Answer from general knowledge and note the missing context.")
	return sb.String()
}

func initialPrompt(query, chunk string) string {
	var sb strings.Builder
	sb.WriteString("Question:\n")
	sb.WriteString(query)
	sb.WriteString("\n\nContext:\n")
	sb.WriteString(chunk)
	sb.WriteString("\n\nAnswer the question using the context above.")
	return sb.String()
}

func refinePrompt(query, draft, chunk string) string {
	var sb strings.Builder
	sb.WriteString("Question:\n")
	sb.WriteString(query)
	sb.WriteString("\n\nExisting answer:\n")
	sb.WriteString(draft)
	sb.WriteString("\n\nAdditional context:\n")
	sb.WriteString(chunk)
	sb.WriteString("\n\nRefine the existing answer with the additional context if it is relevant. If it adds nothing, return the existing answer unchanged.")
	return sb.String()
}
