package producer

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaron8/ksp-telemetry/logi"
	"github.com/yaron8/ksp-telemetry/telemetrics"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "producer-logs")
	if err != nil {
		panic(err)
	}
	if _, err := logi.NewLog(&logi.Config{LogDir: dir}); err != nil {
		panic(err)
	}
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("write without deadline")
	}
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestBrokerList(t *testing.T) {
	assert.Nil(t, Config{}.BrokerList())
	assert.Equal(t, []string{"a:9092", "b:9092"}, Config{Brokers: " a:9092, ,b:9092 "}.BrokerList())
}

func TestNewKafkaProducer_Disabled(t *testing.T) {
	assert.Nil(t, NewKafkaProducer(nil, "topic", "s"))
	assert.Nil(t, NewKafkaProducer([]string{"localhost:9092"}, "", "s"))

	var p *KafkaProducer
	assert.NoError(t, p.Close())
}

func TestNewKafkaProducer_Configured(t *testing.T) {
	p := NewKafkaProducer([]string{"localhost:9092"}, "ksp-telemetry", "s1")
	require.NotNil(t, p)

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "ksp-telemetry", w.Topic)
	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
}

func TestWrite_PublishesRecord(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaProducer{writer: w, topic: "t", session: "s1"}

	require.NoError(t, p.Open(context.Background(), []string{"ut", "thrust"}))
	captured := time.UnixMilli(5000)
	require.NoError(t, p.Write(context.Background(), telemetrics.Row{CapturedAt: captured, Values: []float64{12.5, 200}}))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, []byte("s1"), msg.Key)
	assert.True(t, captured.Equal(msg.Time))

	var record telemetrics.Record
	require.NoError(t, json.Unmarshal(msg.Value, &record))
	assert.Equal(t, "s1", record.Session)
	assert.Equal(t, int64(5000), record.CapturedAt)
	assert.Equal(t, map[string]float64{"ut": 12.5, "thrust": 200}, record.Values)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestWrite_Error(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaProducer{writer: &recordingWriter{err: boom}, topic: "t", session: "s1"}

	err := p.Write(context.Background(), telemetrics.Row{Values: []float64{1}})
	assert.True(t, errors.Is(err, boom))
}
