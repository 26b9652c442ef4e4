package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ttclub/table-booking/internal/model"
)

func ptrU(v uint64) *uint64   { return &v }
func ptrS(v string) *string   { return &v }
func ptrF(v float64) *float64 { return &v }

func sampleRows() []model.BookingDetail {
	return []model.BookingDetail{
		{
			ID: 1, CustomerName: "Anna", TableName: "Table 1",
			TrainerID: ptrU(7), TrainerName: ptrS("John Smith"), TrainerHourlyRate: ptrF(20),
			Date: "2026-03-01", Time: "10:00", Duration: 60, Price: 45,
		},
		{
			ID: 2, CustomerName: "Ben", TableName: "Table 1",
			Date: "2026-03-01", Time: "11:00", Duration: 30, Price: 12,
		},
		{
			ID: 3, CustomerName: "Carla", TableName: "Table 2",
			TrainerID: ptrU(7), TrainerName: ptrS("John Smith"), TrainerHourlyRate: ptrF(20),
			Date: "2026-03-02", Time: "09:00", Duration: 30, Price: 25,
		},
		{
			ID: 4, CustomerName: "Anna", TableName: "Table 2",
			TrainerID: ptrU(9), TrainerName: ptrS("Maria Garcia"), TrainerHourlyRate: ptrF(30),
			Date: "2026-03-02", Time: "10:00", Duration: 60, Price: 45,
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRows())

	assert.Equal(t, 4, s.BookingCount)
	assert.InDelta(t, 127.0, s.Total, 1e-9)
	assert.InDelta(t, 57.0, s.Earnings["Table 1"], 1e-9)
	assert.InDelta(t, 70.0, s.Earnings["Table 2"], 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.BookingCount)
	assert.Zero(t, s.Total)
	assert.Empty(t, s.Earnings)
}

func TestTrainerStats(t *testing.T) {
	stats := TrainerStats(sampleRows())

	assert.Len(t, stats, 2)

	// Ordered by name.
	assert.Equal(t, "John Smith", stats[0].Name)
	assert.Equal(t, uint64(7), stats[0].TrainerID)
	assert.InDelta(t, 1.5, stats[0].Hours, 1e-9)
	assert.InDelta(t, 30.0, stats[0].Earnings, 1e-9)

	assert.Equal(t, "Maria Garcia", stats[1].Name)
	assert.InDelta(t, 1.0, stats[1].Hours, 1e-9)
	assert.InDelta(t, 30.0, stats[1].Earnings, 1e-9)
}

func TestTrainerStatsSkipsUnstaffed(t *testing.T) {
	rows := []model.BookingDetail{
		{ID: 1, CustomerName: "Ben", TableName: "Table 1", Duration: 60, Price: 25},
	}
	assert.Empty(t, TrainerStats(rows))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, sampleRows()[:2])
	assert.NoError(t, err)

	want := "Date,Customer,Table,Trainer,Duration,Price\n" +
		"2026-03-01,Anna,Table 1,John Smith,60,45.00\n" +
		"2026-03-01,Ben,Table 1,,30,12.00\n"
	assert.Equal(t, want, buf.String())
}
