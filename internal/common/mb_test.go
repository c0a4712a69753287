package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBrokerPublishConsume(t *testing.T) {
	mb, err := NewMessageBroker(TestRabbitMQ(t))
	require.NoError(t, err)
	t.Cleanup(func() { mb.Close() })

	require.NoError(t, SetupBlogExchange(mb))

	msgs, err := mb.Consume(CommentCreatedKey, BlogExchange, CommentCreatedQueue)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = mb.Publish(ctx, []byte(`{"comment_id":"1"}`), CommentCreatedKey, BlogExchange)
	require.NoError(t, err)

	select {
	case msg := <-msgs:
		assert.Equal(t, `{"comment_id":"1"}`, string(msg.Body))
		assert.Equal(t, "application/json", msg.ContentType)
		assert.NoError(t, msg.Ack(false))
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}
