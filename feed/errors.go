package feed

import "fmt"

// RenderError reports an entry whose body could not be rendered or
// sanitized.
type RenderError struct {
	Slug string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("feed: render %q: %v", e.Slug, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// SerializationError reports a feed that cannot be written as well-formed
// XML. Slug is empty when the problem is in channel-level data.
type SerializationError struct {
	Slug  string
	Field string
	Err   error
}

func (e *SerializationError) Error() string {
	switch {
	case e.Slug != "" && e.Field != "":
		return fmt.Sprintf("feed: serialize %q %s: %v", e.Slug, e.Field, e.Err)
	case e.Slug != "":
		return fmt.Sprintf("feed: serialize %q: %v", e.Slug, e.Err)
	case e.Field != "":
		return fmt.Sprintf("feed: serialize channel %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("feed: serialize: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
