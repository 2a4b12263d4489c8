package cart

import "context"

// Storage persists the serialized cart under a fixed storage key.
// Read returns (nil, nil) when nothing has been saved yet; the store
// treats that, and any malformed payload, as an empty cart.
type Storage interface {
	// Read returns the last saved cart document, or nil if absent.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the saved cart document. It must complete
	// synchronously; the triggering cart mutation does not return
	// until the write has finished.
	Write(ctx context.Context, data []byte) error
}
