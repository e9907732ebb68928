package eventstream

import "context"

// SyncStreamer fans events out to subscribers. Each event is published
// under a topic and subscribers choose the topics they receive with a
// filter.
//
// Example usage:
//
//	streamer := memory.NewInMemorySyncStreamer[Topic, Change]()
//	defer streamer.Shutdown()
//	events, _ := streamer.Subscribe(ctx, func(t Topic) bool { return t.ListID == id })
//	streamer.Publish(Topic{ListID: id}, change)
type SyncStreamer[Topic any, Payload any] interface {
	// Publish sends payloads to every subscriber whose filter accepts topic.
	// Non-blocking: payloads are dropped for subscribers whose buffer is full.
	Publish(topic Topic, payloads ...Payload)

	// Subscribe returns a channel that is closed when ctx is done or the
	// streamer shuts down. A nil filter receives every topic.
	Subscribe(ctx context.Context, filter TopicFilter[Topic]) (<-chan Event[Topic, Payload], error)

	// Shutdown closes all subscriber channels.
	Shutdown()
}

// TopicFilter reports whether a subscriber wants events for topic.
type TopicFilter[Topic any] func(Topic) bool

type Event[Topic any, Payload any] struct {
	Topic   Topic
	Payload Payload
}
