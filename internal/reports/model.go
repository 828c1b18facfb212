package reports

import "time"

// Export formats
const (
	FormatCSV   = "csv"
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
)

// ActivityReportRow is one activity flattened for export.
type ActivityReportRow struct {
	ID                  string
	Title               string
	Category            string
	HostName            string
	LocationName        string
	StartDateTime       time.Time
	EndDateTime         *time.Time
	CurrentParticipants int
	MaxParticipants     int
	Status              string
}

// RosterReportRow is one participant of a single activity. Name and the
// other user fields are blank when the user row is gone.
type RosterReportRow struct {
	UserID     string
	Name       string
	Email      string
	University string
	IsHost     bool
}
