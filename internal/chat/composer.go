// ABOUTME: Intent-gated response composition: canned replies or grounded generation
// ABOUTME: Retrieval failures degrade to "not found"; generation errors propagate
package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/intent"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/llm"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/models"
)

// maxCitedSources bounds the human-readable citation block.
const maxCitedSources = 3

// Retriever is the slice of the retrieval pipeline the composer needs.
type Retriever interface {
	SearchAndRerank(ctx context.Context, query string, searchTopK, rerankTopN int) []models.RetrievedChunk
}

// Options tune the retrieval and generation calls.
type Options struct {
	SearchTopK  int
	RerankTopN  int
	MaxTokens   int
	Temperature float64
}

// DefaultOptions mirror the service defaults.
func DefaultOptions() Options {
	return Options{
		SearchTopK:  20,
		RerankTopN:  5,
		MaxTokens:   500,
		Temperature: 0.3,
	}
}

// Composer turns a classified message into a response. Greeting, identity,
// and off-topic intents terminate with canned replies; textbook questions
// run the retrieval pipeline and, when context exists, a generation call.
type Composer struct {
	retriever Retriever
	generator llm.Generator
	opts      Options
	log       *zap.Logger
}

// New creates a Composer with explicit dependencies.
func New(retriever Retriever, generator llm.Generator, opts Options, log *zap.Logger) *Composer {
	if opts.SearchTopK <= 0 {
		opts.SearchTopK = DefaultOptions().SearchTopK
	}
	if opts.RerankTopN <= 0 {
		opts.RerankTopN = DefaultOptions().RerankTopN
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultOptions().MaxTokens
	}
	if opts.Temperature <= 0 {
		opts.Temperature = DefaultOptions().Temperature
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Composer{
		retriever: retriever,
		generator: generator,
		opts:      opts,
		log:       log.Named("chat"),
	}
}

// Answer produces the response for one user message. Every textbook
// question yields some text: a grounded, cited answer or an explicit
// not-found message. Only generation errors are returned; retrieval-side
// failures have already been absorbed upstream.
func (c *Composer) Answer(ctx context.Context, userMessage string) (string, []models.Source, error) {
	detected := intent.Classify(userMessage)
	c.log.Info("classified intent", zap.String("intent", string(detected)))

	switch detected {
	case models.IntentGreeting:
		return intent.GreetingReply(userMessage), nil, nil
	case models.IntentIdentity:
		return intent.IdentityReply(), nil, nil
	case models.IntentOffTopic:
		return intent.OffTopicReply(), nil, nil
	}

	contextChunks := c.retriever.SearchAndRerank(ctx, userMessage, c.opts.SearchTopK, c.opts.RerankTopN)
	if len(contextChunks) == 0 {
		c.log.Warn("no context found, returning fallback message")
		return notFoundReply(userMessage), nil, nil
	}

	prompt := buildGroundingPrompt(userMessage, contextChunks)
	answer, err := c.generator.Generate(ctx, prompt, llm.GenerateOptions{
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	})
	if err != nil {
		return "", nil, fmt.Errorf("generation failed: %w", err)
	}
	if answer == "" {
		answer = "I couldn't find a good answer to your question."
	}

	answer += citationBlock(contextChunks)
	c.log.Info("generated response",
		zap.Int("answer_len", len(answer)),
		zap.Int("sources", len(contextChunks)))

	return answer, models.SourcesFromChunks(contextChunks), nil
}

// QuerySelection answers a question about a passage the user selected.
// Uses a looser temperature than the grounded answer path.
func (c *Composer) QuerySelection(ctx context.Context, selectedText, extraContext string) (string, []models.Source, error) {
	contextChunks := c.retriever.SearchAndRerank(ctx, selectedText, c.opts.SearchTopK, c.opts.RerankTopN)

	var prompt strings.Builder
	prompt.WriteString("Selected text: ")
	prompt.WriteString(selectedText)
	prompt.WriteString("\n\nAdditional context: ")
	prompt.WriteString(extraContext)
	if len(contextChunks) > 0 {
		prompt.WriteString("\n\nBased on the selected text and documentation, please provide relevant information:")
	} else {
		prompt.WriteString("\n\nPlease provide information about this selection:")
	}

	answer, err := c.generator.Generate(ctx, prompt.String(), llm.GenerateOptions{
		MaxTokens:   c.opts.MaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", nil, fmt.Errorf("generation failed: %w", err)
	}
	if answer == "" {
		answer = "I couldn't find relevant information."
	}

	return answer, models.SourcesFromChunks(contextChunks), nil
}

// buildGroundingPrompt assembles the context block in rerank order and
// instructs the model to answer strictly from it.
func buildGroundingPrompt(question string, chunks []models.RetrievedChunk) string {
	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Content
	}

	var sb strings.Builder
	sb.WriteString(`You are a helpful assistant that answers questions ONLY based on the provided context from the textbook. If the answer is not in the context, say "I couldn't find this information in the textbook."`)
	sb.WriteString("\n\nContext from textbook:\n")
	sb.WriteString(strings.Join(contents, "\n\n"))
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer (based ONLY on the context above):")
	return sb.String()
}

// citationBlock formats up to the top three sources with title, link, and
// relevance to two decimal places.
func citationBlock(chunks []models.RetrievedChunk) string {
	var sb strings.Builder
	sb.WriteString("\n\n---\n📚 **Sources from your textbook:**\n")
	for i, chunk := range chunks {
		if i == maxCitedSources {
			break
		}
		title := chunk.Title
		if title == "" {
			title = "Untitled"
		}
		if chunk.URL != "" {
			fmt.Fprintf(&sb, "\n%d. [%s](%s) (Relevance: %.2f)", i+1, title, chunk.URL, chunk.Score)
		} else {
			fmt.Fprintf(&sb, "\n%d. %s (Relevance: %.2f)", i+1, title, chunk.Score)
		}
	}
	return sb.String()
}

// notFoundReply is the fixed response for questions the source material
// cannot ground. No generation call is spent on it.
func notFoundReply(question string) string {
	return fmt.Sprintf("I apologize, but I couldn't find relevant information in the textbook to answer your question: %s\n\nPlease try rephrasing your question or ask about topics covered in the textbook.", question)
}
