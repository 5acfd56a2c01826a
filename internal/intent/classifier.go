// ABOUTME: Pattern-based intent classification for incoming messages
// ABOUTME: Pure functions, no I/O; greeting -> identity -> off_topic -> default
package intent

import (
	"regexp"
	"strings"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/models"
)

// Pattern groups are checked in order. Greetings first because they are the
// most common and cheapest to resolve; off-topic last because its patterns
// are broad and could shadow a legitimate textbook question.
var greetingPatterns = compile(
	`\b(hi|hello|hey|greetings|hola|howdy)\b`,
	`\b(good\s*(morning|afternoon|evening|day))\b`,
	`\b(how\s*(are|r)\s*(you|u))\b`,
	`^(yo|sup|wassup|whats\s*up)$`,
)

var identityPatterns = compile(
	`\b(who|what)\s*(are|r)\s*(you|u)\b`,
	`\bwhat\s*can\s*you\s*do\b`,
	`\bwhat\s*(is|are)\s*your\s*(purpose|function|capabilities)\b`,
	`\btell\s*me\s*about\s*(yourself|you)\b`,
	`\byour\s*capabilities\b`,
	`\bwhat\s*do\s*you\s*do\b`,
)

var offTopicPatterns = compile(
	`\b(capital|president|prime minister|government|country|city)\b`,
	`\b(weather|temperature|forecast|climate)\b`,
	`\b(sports|football|cricket|basketball|game|match)\b`,
	`\b(news|current events|today'?s)\b`,
	`\b(movie|film|tv show|series|entertainment)\b`,
	`\btell\s*(me\s*)?(a\s*)?(joke|story)\b`,
	`\b(recipe|cooking|food|restaurant)\b`,
	`\b(stock|market|price|bitcoin|crypto)\b`,
)

func compile(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Classify maps a raw message to an intent. Total over all inputs: anything
// that matches no pattern group is a textbook question.
func Classify(text string) models.Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))

	switch {
	case matchAny(greetingPatterns, normalized):
		return models.IntentGreeting
	case matchAny(identityPatterns, normalized):
		return models.IntentIdentity
	case matchAny(offTopicPatterns, normalized):
		return models.IntentOffTopic
	default:
		return models.IntentTextbookQuestion
	}
}

// GreetingReply returns a canned greeting tailored to which phrase matched.
func GreetingReply(text string) string {
	normalized := strings.ToLower(text)

	containsAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(normalized, w) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("hi", "hello", "hey", "greetings"):
		return "Hello! 👋 I'm your textbook assistant. I'm here to help you understand the content in your textbook. What would you like to know?"
	case containsAny("how are you", "how r u", "how are u"):
		return "I'm doing great, thank you for asking! I'm here and ready to help you with any questions about your textbook. What would you like to learn today?"
	case containsAny("good morning", "morning"):
		return "Good morning! ☀️ Ready to explore your textbook together? What topic would you like to discuss?"
	case containsAny("good evening", "evening"):
		return "Good evening! 🌙 I'm here to help you with your textbook. What can I assist you with?"
	case containsAny("good afternoon", "afternoon"):
		return "Good afternoon! I'm ready to help you understand your textbook better. What questions do you have?"
	default:
		return "Hello! I'm your textbook assistant. How can I help you understand the material today?"
	}
}

// IdentityReply returns the fixed identity and capabilities description.
func IdentityReply() string {
	return `I'm an AI-powered textbook assistant, designed to help you understand and learn from your textbook content.

Here's what I can do:
📚 Answer questions about topics covered in your textbook
💡 Explain concepts and provide clarifications
🔍 Help you find relevant information from the textbook
📖 Provide context-based explanations

I focus specifically on the content available in your textbook. If you have questions about topics covered in the book, feel free to ask!`
}

// OffTopicReply returns the fixed refusal for questions outside the textbook.
func OffTopicReply() string {
	return `I appreciate your question, but I'm specifically designed to help with your textbook content. I can only answer questions related to the topics covered in your textbook.

If you have questions about the material in your textbook, I'd be happy to help! What would you like to learn from the textbook?`
}
