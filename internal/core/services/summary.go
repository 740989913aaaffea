package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

const summaryPages = 5

const summaryPromptHeader = "You are given the following PDF content. " +
	"Write a concise, high-level summary (max 10 bullet points):\n\n"

// Summarizer writes a short bullet summary from the first pages.
type Summarizer struct {
	pages int
}

// NewSummarizer creates a summarizer reading the first five pages.
func NewSummarizer() *Summarizer {
	return &Summarizer{pages: summaryPages}
}

// Summarize returns the model output verbatim.
func (s *Summarizer) Summarize(ctx context.Context, llm driven.LLMService, pages []string) (string, error) {
	prompt := summaryPromptHeader + strings.Join(firstN(pages, s.pages), "\n\n")

	summary, err := llm.Chat(ctx, []driven.ChatMessage{{Role: "user", Content: prompt}}, driven.ChatOptions{})
	if err != nil {
		return "", fmt.Errorf("summarizing document: %w", err)
	}
	return summary, nil
}
