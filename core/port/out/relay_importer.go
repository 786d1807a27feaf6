package out

import "relay_server/core/domain"

// ConversationImporter normalizes an uploaded export into an ordered
// conversation. Implementations skip malformed rows instead of failing
// the whole import; an error means the file as a whole is unusable.
type ConversationImporter interface {
	Parse(filename string, data []byte) (*domain.Conversation, error)
}
