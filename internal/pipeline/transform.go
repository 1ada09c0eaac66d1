package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/water-project-quality/internal/domain"
)

// ProjectTransformer implements Transformer by parsing the raw message as a
// project record and assessing it.
type ProjectTransformer struct {
	logger *slog.Logger
}

// NewTransformer creates a ProjectTransformer.
func NewTransformer(logger *slog.Logger) *ProjectTransformer {
	return &ProjectTransformer{logger: logger}
}

// Transform fails only when the payload is not a JSON object. Anything that
// parses is assessed, however sparse. The output key is the project ID, or
// the source message key when the record has none.
func (t *ProjectTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.AssessedProject, error) {
	rec, err := domain.ParseProjectRecord(raw.Value)
	if err != nil {
		return domain.AssessedProject{}, err
	}

	key := raw.Key
	if rec.ID != "" {
		key = []byte(rec.ID)
	}

	a := domain.Assess(rec)
	t.logger.Debug("project assessed",
		"key", string(key),
		"score", a.Quality.Score,
		"quality_tier", a.Quality.Tier,
		"location_source", a.Location.Source,
	)
	return domain.AssessedProject{Key: key, Record: rec, Assessment: a}, nil
}
