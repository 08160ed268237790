package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func newTestProducer(w *recordingWriter) *Producer {
	return &Producer{writer: w, logger: slog.Default()}
}

func TestPublishEncodesJSON(t *testing.T) {
	w := &recordingWriter{}
	p := newTestProducer(w)

	err := p.Publish(context.Background(), Event{Key: "q1", Value: map[string]int{"hits": 3}})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "q1", string(w.msgs[0].Key))

	var v map[string]int
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &v))
	assert.Equal(t, 3, v["hits"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishBatchEmptyIsNoop(t *testing.T) {
	w := &recordingWriter{err: errors.New("should not be called")}
	assert.NoError(t, newTestProducer(w).PublishBatch(context.Background(), nil))
}

func TestPublishBatchWriterError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	err := newTestProducer(w).PublishBatch(context.Background(), []Event{{Key: "k", Value: 1}})
	assert.Error(t, err)
}

func TestPublishUnmarshalableValue(t *testing.T) {
	w := &recordingWriter{}
	err := newTestProducer(w).Publish(context.Background(), Event{Key: "k", Value: make(chan int)})
	assert.Error(t, err)
	assert.Empty(t, w.msgs)
}
