package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
)

func TestBucketLabel(t *testing.T) {
	midnight := time.Date(2024, time.May, 21, 0, 0, 0, 0, time.UTC)
	noon := midnight.Add(12 * time.Hour)

	assert.Equal(t, "12AM", bucketLabel(midnight, entity.GranularityHour, catalog.LocaleEN))
	assert.Equal(t, "12PM", bucketLabel(noon, entity.GranularityHour, catalog.LocaleEN))
	assert.Equal(t, "12م", bucketLabel(noon, entity.GranularityHour, catalog.LocaleAR))
	assert.Equal(t, "May 21", bucketLabel(noon, entity.GranularityDay, catalog.LocaleEN))
	assert.Equal(t, "May", bucketLabel(noon, entity.GranularityMonth, catalog.LocaleEN))
	assert.Equal(t, "مايو", bucketLabel(noon, entity.GranularityMonth, catalog.LocaleAR))
}
