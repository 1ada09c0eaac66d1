package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/water-project-quality/internal/domain"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("DWS-WC-001"),
		Value:     []byte(`{"name":"Smithfield Dam"}`),
		Topic:     "raw-projects",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("dws")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("DWS-WC-001"), raw.Key)
	assert.JSONEq(t, `{"name":"Smithfield Dam"}`, string(raw.Value))
	assert.Equal(t, "raw-projects", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "dws", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestMapMessageToRawEvent_NoHeaders(t *testing.T) {
	raw := mapMessageToRawEvent(kafkago.Message{Value: []byte(`{}`)})

	assert.NotNil(t, raw.Headers)
	assert.Empty(t, raw.Headers)
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(nil) })

	rec := domain.ProjectRecord{ID: "DWS-WC-001", Name: "Project", Municipality: "City of Cape Town"}
	project := domain.AssessedProject{
		Key:        []byte(rec.ID),
		Record:     rec,
		Assessment: domain.Assess(rec),
	}

	msg, err := serializeToMessage(project)
	require.NoError(t, err)

	assert.Equal(t, []byte("DWS-WC-001"), msg.Key)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, HeaderQualityTier, msg.Headers[0].Key)
	assert.Equal(t, []byte("very_poor"), msg.Headers[0].Value)
	assert.Equal(t, HeaderLocationSource, msg.Headers[1].Key)
	assert.Equal(t, []byte("municipality_mapping"), msg.Headers[1].Value)
	assert.Equal(t, HeaderProcessedAt, msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)

	var body struct {
		Record     map[string]any `json:"record"`
		Assessment map[string]any `json:"assessment"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "City of Cape Town", body.Record["municipality_name"])
	assert.Equal(t, "DWS-WC-001", body.Assessment["project_id"])
	assert.NotContains(t, string(msg.Value), `"Key"`)
}
