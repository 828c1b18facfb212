package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moa-app/moa-backend/internal/auditlog"
	"gorm.io/gorm"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("activity not found")
	ErrAlreadyJoined = errors.New("already joined this activity")
	ErrActivityFull  = errors.New("activity is full")
)

// joinRetries bounds the optimistic-update loop. Each retry re-reads the
// row, so a retry only repeats when another join landed in between.
const joinRetries = 5

type Service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(r Repository, auditSvc auditlog.Service) *Service {
	return &Service{repo: r, auditSvc: auditSvc}
}

// ===========================
// Create Activity

type CreateInput struct {
	Title           string
	Category        string
	Description     string
	HostUserID      string
	HostName        string
	LocationName    string
	LocationLat     float64
	LocationLng     float64
	StartDateTime   time.Time
	EndDateTime     *time.Time
	MaxParticipants int
}

func (in *CreateInput) validate() error {
	switch {
	case in.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case in.Category == "":
		return fmt.Errorf("%w: category is required", ErrValidation)
	case !IsValidCategory(in.Category):
		return fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	case in.Description == "":
		return fmt.Errorf("%w: description is required", ErrValidation)
	case in.HostUserID == "":
		return fmt.Errorf("%w: hostUserId is required", ErrValidation)
	case in.HostName == "":
		return fmt.Errorf("%w: hostName is required", ErrValidation)
	case in.LocationName == "":
		return fmt.Errorf("%w: locationName is required", ErrValidation)
	case in.StartDateTime.IsZero():
		return fmt.Errorf("%w: startDateTime is required", ErrValidation)
	case in.MaxParticipants < 1:
		return fmt.Errorf("%w: maxParticipants must be a positive integer", ErrValidation)
	}
	if in.EndDateTime != nil && in.EndDateTime.Before(in.StartDateTime) {
		return fmt.Errorf("%w: endDateTime must not be before startDateTime", ErrValidation)
	}
	return nil
}

// Create validates the input before any write, then persists the activity
// with the host as its first participant.
func (s *Service) Create(in CreateInput, ip string) (*Activity, error) {
	if err := in.validate(); err != nil {
		s.auditSvc.LogAction(context.Background(), nil, "ACTIVITY_CREATED",
			map[string]interface{}{"title": in.Title, "error": err.Error()}, ip, "failure")
		return nil, err
	}

	a := &Activity{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Category:      in.Category,
		Description:   in.Description,
		HostUserID:    in.HostUserID,
		HostName:      in.HostName,
		LocationName:  in.LocationName,
		LocationLat:   in.LocationLat,
		LocationLng:   in.LocationLng,
		StartDateTime: in.StartDateTime.UTC(),
		IsInstant:     false,
		MaxParticipants: in.MaxParticipants,
		Status:          StatusOpen,
	}
	if in.EndDateTime != nil {
		end := in.EndDateTime.UTC()
		a.EndDateTime = &end
	}
	if err := a.setParticipants([]string{in.HostUserID}); err != nil {
		return nil, err
	}
	a.UpdatedAt = time.Now().UTC()

	if err := s.repo.Create(a); err != nil {
		s.auditSvc.LogAction(context.Background(), &in.HostUserID, "ACTIVITY_CREATED",
			map[string]interface{}{"title": in.Title, "error": err.Error()}, ip, "failure")
		return nil, err
	}

	s.auditSvc.LogAction(context.Background(), &in.HostUserID, "ACTIVITY_CREATED",
		map[string]interface{}{
			"activity_id":      a.ID,
			"title":            a.Title,
			"category":         a.Category,
			"max_participants": a.MaxParticipants,
		}, ip, "success")

	return a, nil
}

// ===========================
// List Activities

// List returns activities soonest-first. The category filter is passed
// through as-is: an unknown value matches nothing and yields an empty list.
func (s *Service) List(category string) ([]Activity, error) {
	return s.repo.List(category)
}

func (s *Service) GetByID(id string) (*Activity, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// ===========================
// Join Activity
//
// The read-check-write sequence must be atomic with respect to other joins
// on the same activity. Each iteration reads the current row, checks the
// preconditions against it, and commits through a version compare-and-swap;
// a lost race re-reads and re-checks, so the last open slot is handed out
// exactly once and a duplicate join can never slip in between.
func (s *Service) Join(activityID, userID string, ip string) (*Activity, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}

	for attempt := 0; attempt < joinRetries; attempt++ {
		a, err := s.GetByID(activityID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				s.auditSvc.LogAction(context.Background(), &userID, "ACTIVITY_JOINED",
					map[string]interface{}{"activity_id": activityID, "error": "not found"}, ip, "failure")
			}
			return nil, err
		}

		ids := a.ParticipantIDs()
		for _, id := range ids {
			if id == userID {
				s.auditSvc.LogAction(context.Background(), &userID, "ACTIVITY_JOINED",
					map[string]interface{}{"activity_id": activityID, "error": "already joined"}, ip, "failure")
				return nil, ErrAlreadyJoined
			}
		}

		if a.CurrentParticipants+1 > a.MaxParticipants {
			s.auditSvc.LogAction(context.Background(), &userID, "ACTIVITY_JOINED",
				map[string]interface{}{"activity_id": activityID, "error": "full"}, ip, "failure")
			return nil, ErrActivityFull
		}

		expectedVersion := a.Version
		if err := a.setParticipants(append(ids, userID)); err != nil {
			return nil, err
		}
		if a.CurrentParticipants == a.MaxParticipants {
			a.Status = StatusFull
		}

		ok, err := s.repo.UpdateRosterCAS(a, expectedVersion)
		if err != nil {
			return nil, err
		}
		if ok {
			s.auditSvc.LogAction(context.Background(), &userID, "ACTIVITY_JOINED",
				map[string]interface{}{
					"activity_id":          a.ID,
					"current_participants": a.CurrentParticipants,
				}, ip, "success")
			return a, nil
		}
		// Version moved under us: another join committed first. Re-read and
		// re-check.
	}

	return nil, fmt.Errorf("join conflict on activity %s: retries exhausted", activityID)
}
