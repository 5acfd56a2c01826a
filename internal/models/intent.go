// ABOUTME: Intent enumeration for incoming chat messages
// ABOUTME: Derived per message, never stored
package models

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentGreeting         Intent = "greeting"
	IntentIdentity         Intent = "identity"
	IntentOffTopic         Intent = "off_topic"
	IntentTextbookQuestion Intent = "textbook_question"
)

// IsValid reports whether the intent is one of the known categories.
func (i Intent) IsValid() bool {
	switch i {
	case IntentGreeting, IntentIdentity, IntentOffTopic, IntentTextbookQuestion:
		return true
	}
	return false
}
