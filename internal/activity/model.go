package activity

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Activity categories understood by the client
const (
	CategoryStudy     = "Study"
	CategoryMealBuddy = "MealBuddy"
	CategorySports    = "Sports"
	CategoryOthers    = "Others"
)

// Activity statuses. Only "open" and "full" are written by the current
// code paths; "finished" and "cancelled" are reserved for explicit
// operations.
const (
	StatusOpen      = "open"
	StatusFull      = "full"
	StatusFinished  = "finished"
	StatusCancelled = "cancelled"
)

func IsValidCategory(c string) bool {
	switch c {
	case CategoryStudy, CategoryMealBuddy, CategorySports, CategoryOthers:
		return true
	}
	return false
}

// ============================
// Activity Model
//
// HostName is a snapshot of the host's name at creation time and does not
// follow later renames. Version backs the optimistic roster updates.
type Activity struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Category    string `gorm:"type:varchar(50);not null;index" json:"category"`
	Description string `gorm:"type:text;not null" json:"description"`

	HostUserID string `gorm:"type:uuid;not null;index" json:"hostUserId"`
	HostName   string `gorm:"not null" json:"hostName"`

	LocationName string  `gorm:"not null" json:"locationName"`
	LocationLat  float64 `json:"locationLat"`
	LocationLng  float64 `json:"locationLng"`

	StartDateTime time.Time  `gorm:"not null;index" json:"startDateTime"`
	EndDateTime   *time.Time `json:"endDateTime"`
	IsInstant     bool       `gorm:"default:false" json:"isInstant"`

	MaxParticipants     int            `gorm:"not null" json:"maxParticipants"`
	CurrentParticipants int            `gorm:"not null;default:1" json:"currentParticipants"`
	Status              string         `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	Participants        datatypes.JSON `json:"participants"`

	Version int64 `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides table name for Activity
func (Activity) TableName() string {
	return "activities"
}

// ParticipantIDs decodes the roster column into a slice of user ids.
func (a *Activity) ParticipantIDs() []string {
	var ids []string
	if len(a.Participants) == 0 {
		return ids
	}
	if err := json.Unmarshal(a.Participants, &ids); err != nil {
		return nil
	}
	return ids
}

// HasParticipant reports whether userID is already on the roster.
func (a *Activity) HasParticipant(userID string) bool {
	for _, id := range a.ParticipantIDs() {
		if id == userID {
			return true
		}
	}
	return false
}

func (a *Activity) setParticipants(ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	a.Participants = raw
	a.CurrentParticipants = len(ids)
	return nil
}
