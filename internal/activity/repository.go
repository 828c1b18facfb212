package activity

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(a *Activity) error
	GetByID(id string) (*Activity, error)
	List(category string) ([]Activity, error)
	// UpdateRosterCAS writes the roster fields of a, but only if the stored
	// row still carries expectedVersion. Returns false when another writer
	// got there first.
	UpdateRosterCAS(a *Activity, expectedVersion int64) (bool, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(a *Activity) error {
	return r.db.Create(a).Error
}

func (r *repository) GetByID(id string) (*Activity, error) {
	var a Activity
	err := r.db.Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns activities soonest-first. The id tie-break keeps the order
// deterministic for activities sharing a start time.
func (r *repository) List(category string) ([]Activity, error) {
	activities := []Activity{}

	query := r.db.Model(&Activity{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	err := query.
		Order("start_date_time ASC").
		Order("id ASC").
		Find(&activities).Error
	return activities, err
}

func (r *repository) UpdateRosterCAS(a *Activity, expectedVersion int64) (bool, error) {
	now := time.Now().UTC()
	res := r.db.Model(&Activity{}).
		Where("id = ? AND version = ?", a.ID, expectedVersion).
		Updates(map[string]interface{}{
			"participants":         a.Participants,
			"current_participants": a.CurrentParticipants,
			"status":               a.Status,
			"version":              expectedVersion + 1,
			"updated_at":           now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	a.Version = expectedVersion + 1
	a.UpdatedAt = now
	return true, nil
}
