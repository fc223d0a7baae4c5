// Package events publishes change notifications for committed store mutations.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
)

// Topics.
const (
	TopicNotebooks = "notebooks.changed"
	TopicSettings  = "settings.changed"
)

// Op names the mutation that produced a change.
type Op string

const (
	OpLoad           Op = "load"
	OpCreateNotebook Op = "notebook.create"
	OpUpdateNotebook Op = "notebook.update"
	OpDeleteNotebook Op = "notebook.delete"
	OpAddNote        Op = "note.add"
	OpUpdateNote     Op = "note.update"
	OpDeleteNote     Op = "note.delete"
	OpDarkMode       Op = "settings.dark_mode"
	OpHomeBackground Op = "settings.home_background"
)

// Change describes one committed mutation. Revision increases with every commit,
// so consumers can discard notifications older than the state they already hold.
type Change struct {
	Topic      string `json:"topic"`
	Revision   uint64 `json:"revision"`
	Op         Op     `json:"op"`
	NotebookID string `json:"notebookId,omitempty"`
	NoteID     string `json:"noteId,omitempty"`
	At         int64  `json:"at"`
}

// Time returns At as time.Time.
func (c Change) Time() time.Time {
	return time.UnixMilli(c.At)
}

// Publisher is implemented by anything that accepts change notifications.
type Publisher interface {
	Publish(ctx context.Context, c Change) error
}

// Bus is an in-process pub/sub for Change notifications.
type Bus struct {
	pubSub *gochannel.GoChannel
}

// NewBus creates a bus whose subscriber channels buffer up to buffer messages.
func NewBus(buffer int) *Bus {
	if buffer < 0 {
		buffer = 0
	}
	return &Bus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: int64(buffer)},
			watermill.NewStdLogger(false, false),
		),
	}
}

// Publish sends c to the subscribers of c.Topic. Without subscribers the change is dropped.
func (b *Bus) Publish(ctx context.Context, c Change) error {
	if c.Topic == "" {
		return fmt.Errorf("change has no topic")
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode change: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return b.pubSub.Publish(c.Topic, msg)
}

// Subscribe returns the changes published on topics until ctx is done or the bus is closed.
// With no topics, both the notebook and settings topics are subscribed.
func (b *Bus) Subscribe(ctx context.Context, topics ...string) (<-chan Change, error) {
	if len(topics) == 0 {
		topics = []string{TopicNotebooks, TopicSettings}
	}

	var sources []<-chan *message.Message
	for _, topic := range topics {
		messages, err := b.pubSub.Subscribe(ctx, topic)
		if err != nil {
			return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
		sources = append(sources, messages)
	}

	out := make(chan Change)
	var wg sync.WaitGroup
	for _, messages := range sources {
		wg.Add(1)
		go func(messages <-chan *message.Message) {
			defer wg.Done()
			for msg := range messages {
				var c Change
				err := json.Unmarshal(msg.Payload, &c)
				msg.Ack()
				if err != nil {
					logging.Warn("Dropping undecodable change", map[string]interface{}{
						"message_id": msg.UUID,
						"error":      err.Error(),
					})
					continue
				}
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}(messages)
	}
	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

// Close stops the bus and closes every subscriber channel.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
