package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// LeadLogHeader is the column order of WriteCSV.
var LeadLogHeader = []string{
	"submission_id", "created_at", "assessment", "email", "contact_name", "company_name",
	"marketing_opt_in", "final_score", "band", "flag_count", "delivery_status", "attempts", "delivered_at",
}

// WriteCSV writes subs as the lead log spreadsheet, header first.
func WriteCSV(w io.Writer, subs []Submission) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LeadLogHeader); err != nil {
		return fmt.Errorf("store: write csv header: %w", err)
	}
	for _, s := range subs {
		delivered := ""
		if s.DeliveredAt != nil {
			delivered = s.DeliveredAt.Format(time.RFC3339)
		}
		record := []string{
			s.ID.String(),
			s.CreatedAt.Format(time.RFC3339),
			s.Kind,
			s.Email,
			s.ContactName,
			s.CompanyName,
			strconv.FormatBool(s.MarketingOptIn),
			strconv.Itoa(s.FinalScore),
			s.Band,
			strconv.Itoa(s.FlagCount),
			string(s.Status),
			strconv.Itoa(s.Attempts),
			delivered,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("store: write csv row %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
