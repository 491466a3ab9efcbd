package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/earnings-insight/internal/models"
)

func filingAt(target string, offsetDays int, id string) models.FilingRecord {
	t, _ := time.Parse(models.DateLayout, target)
	return models.FilingRecord{
		FilingDate:  t.AddDate(0, 0, offsetDays).Format(models.DateLayout),
		Form:        "8-K",
		AccessionID: id,
	}
}

func TestNearestFiling_PicksMinimalDistanceInsideWindow(t *testing.T) {
	target := "2025-07-31"
	filings := []models.FilingRecord{
		filingAt(target, -10, "minus10"),
		filingAt(target, -6, "minus6"),
		filingAt(target, 3, "plus3"),
		filingAt(target, 9, "plus9"),
	}

	got := NearestFiling(target, filings)
	require.NotNil(t, got)
	assert.Equal(t, "plus3", got.AccessionID)
}

func TestNearestFiling_TieKeepsFirstEncountered(t *testing.T) {
	target := "2025-07-31"

	got := NearestFiling(target, []models.FilingRecord{
		filingAt(target, -3, "first"),
		filingAt(target, 3, "second"),
	})
	require.NotNil(t, got)
	assert.Equal(t, "first", got.AccessionID)

	got = NearestFiling(target, []models.FilingRecord{
		filingAt(target, 3, "first"),
		filingAt(target, -3, "second"),
	})
	require.NotNil(t, got)
	assert.Equal(t, "first", got.AccessionID)
}

func TestNearestFiling_WindowEdges(t *testing.T) {
	target := "2025-03-10"

	got := NearestFiling(target, []models.FilingRecord{filingAt(target, 7, "edge")})
	require.NotNil(t, got)
	assert.Equal(t, "edge", got.AccessionID)

	assert.Nil(t, NearestFiling(target, []models.FilingRecord{filingAt(target, 8, "out")}))
	assert.Nil(t, NearestFiling(target, []models.FilingRecord{filingAt(target, -8, "out")}))
}

func TestNearestFiling_NoCandidates(t *testing.T) {
	assert.Nil(t, NearestFiling("2025-03-10", nil))
	assert.Nil(t, NearestFiling("not-a-date", []models.FilingRecord{{FilingDate: "2025-03-10"}}))
	assert.Nil(t, NearestFiling("2025-03-10", []models.FilingRecord{{FilingDate: "garbage"}}))
}

func TestNearestFiling_ReturnsCopy(t *testing.T) {
	filings := []models.FilingRecord{{FilingDate: "2025-03-10", Description: "orig"}}
	got := NearestFiling("2025-03-10", filings)
	require.NotNil(t, got)
	got.Description = "changed"
	assert.Equal(t, "orig", filings[0].Description)
}
