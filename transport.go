package jsonfrag

import "io"

// Transport defines the interface for delivering encoded documents to other
// processes. Implementations stream the fragments rather than joining them.
type Transport interface {
	// Send delivers the document made of frags on the given subject.
	Send(subject string, frags *Fragments) error

	// Handle registers a handler for documents sent on subject. The handler
	// receives an io.Reader for the document text.
	Handle(subject string, handler func(subject string, reader io.Reader))

	// Close cleans up resources and closes subscriptions.
	Close() error
}
