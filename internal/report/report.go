// Package report computes earnings and staffing rollups from enriched
// booking rows.  Everything here is pure; the handlers fetch the rows
// and hand them over.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/ttclub/table-booking/internal/model"
)

// Summary is the earnings rollup for a set of bookings, keyed by
// table name.
type Summary struct {
	Earnings     map[string]float64 `json:"earnings"`
	Total        float64            `json:"total"`
	BookingCount int                `json:"booking_count"`
}

// Summarize folds booking rows into per-table earnings and a grand
// total.  Prices are the stored commit-time snapshots.
func Summarize(rows []model.BookingDetail) Summary {
	s := Summary{Earnings: make(map[string]float64), BookingCount: len(rows)}
	for _, r := range rows {
		s.Earnings[r.TableName] += r.Price
		s.Total += r.Price
	}
	return s
}

// TrainerStat is one trainer's staffed hours and earnings over a set
// of bookings.  Hours are booking durations in fractional hours;
// earnings are hours times the trainer's current hourly rate.
type TrainerStat struct {
	TrainerID uint64  `json:"trainer_id"`
	Name      string  `json:"name"`
	Hours     float64 `json:"hours"`
	Earnings  float64 `json:"earnings"`
}

// TrainerStats aggregates staffed bookings per trainer, ordered by
// trainer name.  Rows without a trainer are skipped.
func TrainerStats(rows []model.BookingDetail) []TrainerStat {
	byID := make(map[uint64]*TrainerStat)
	for _, r := range rows {
		if r.TrainerID == nil || r.TrainerName == nil {
			continue
		}
		st, ok := byID[*r.TrainerID]
		if !ok {
			st = &TrainerStat{TrainerID: *r.TrainerID, Name: *r.TrainerName}
			byID[*r.TrainerID] = st
		}
		hours := float64(r.Duration) / 60
		st.Hours += hours
		if r.TrainerHourlyRate != nil {
			st.Earnings += hours * *r.TrainerHourlyRate
		}
	}
	out := make([]TrainerStat, 0, len(byID))
	for _, st := range byID {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// WriteCSV renders booking rows as a CSV export with one header line.
// The trainer column is empty for unstaffed bookings.
func WriteCSV(w io.Writer, rows []model.BookingDetail) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Customer", "Table", "Trainer", "Duration", "Price"}); err != nil {
		return err
	}
	for _, r := range rows {
		trainer := ""
		if r.TrainerName != nil {
			trainer = *r.TrainerName
		}
		rec := []string{
			r.Date,
			r.CustomerName,
			r.TableName,
			trainer,
			fmt.Sprintf("%d", r.Duration),
			fmt.Sprintf("%.2f", r.Price),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
