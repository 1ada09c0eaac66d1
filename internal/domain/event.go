package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// AssessedProject is the record destined for the sink topic: the coerced
// project alongside its assessment.
type AssessedProject struct {
	Key        []byte        `json:"-"`
	Record     ProjectRecord `json:"record"`
	Assessment Assessment    `json:"assessment"`
}
