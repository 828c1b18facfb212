package reports

import (
	"errors"

	"github.com/moa-app/moa-backend/internal/activity"
	"github.com/moa-app/moa-backend/internal/auth"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNotHost           = errors.New("only the host may export the roster")
)

type Service interface {
	ExportActivities(format string) ([]byte, string, string, error)
	// ExportRoster exports one activity's participant list. requesterID must
	// be the activity's host.
	ExportRoster(activityID, requesterID, format string) ([]byte, string, string, error)
}

type service struct {
	activities *activity.Service
	users      auth.Repository
	exporter   ReportExporter
}

func NewService(activities *activity.Service, users auth.Repository) Service {
	return &service{
		activities: activities,
		users:      users,
		exporter:   NewReportExporter(),
	}
}

func validFormat(format string) bool {
	switch format {
	case FormatCSV, FormatExcel, FormatPDF:
		return true
	}
	return false
}

func toActivityRow(a *activity.Activity) ActivityReportRow {
	return ActivityReportRow{
		ID:                  a.ID,
		Title:               a.Title,
		Category:            a.Category,
		HostName:            a.HostName,
		LocationName:        a.LocationName,
		StartDateTime:       a.StartDateTime,
		EndDateTime:         a.EndDateTime,
		CurrentParticipants: a.CurrentParticipants,
		MaxParticipants:     a.MaxParticipants,
		Status:              a.Status,
	}
}

func (s *service) ExportActivities(format string) ([]byte, string, string, error) {
	if !validFormat(format) {
		return nil, "", "", ErrUnsupportedFormat
	}

	activities, err := s.activities.List("")
	if err != nil {
		return nil, "", "", err
	}

	rows := make([]ActivityReportRow, 0, len(activities))
	for i := range activities {
		rows = append(rows, toActivityRow(&activities[i]))
	}

	return s.exporter.ExportActivities(format, rows)
}

func (s *service) ExportRoster(activityID, requesterID, format string) ([]byte, string, string, error) {
	if !validFormat(format) {
		return nil, "", "", ErrUnsupportedFormat
	}

	a, err := s.activities.GetByID(activityID)
	if err != nil {
		return nil, "", "", err
	}
	if a.HostUserID != requesterID {
		return nil, "", "", ErrNotHost
	}

	rows := make([]RosterReportRow, 0, a.CurrentParticipants)
	for _, userID := range a.ParticipantIDs() {
		row := RosterReportRow{UserID: userID, IsHost: userID == a.HostUserID}
		if user, err := s.users.FindByID(userID); err == nil {
			row.Name = user.Name
			row.Email = user.Email
			row.University = user.University
		}
		rows = append(rows, row)
	}

	return s.exporter.ExportRoster(format, toActivityRow(a), rows)
}
