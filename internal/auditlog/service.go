package auditlog

import (
	"context"
	"encoding/json"
	"log"
)

type Service interface {
	// LogAction records an audit row. Best-effort: failures are logged and
	// never bubble up into the request that triggered them.
	LogAction(ctx context.Context, userID *string, action string, details map[string]interface{}, ip string, status string)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogAction(ctx context.Context, userID *string, action string, details map[string]interface{}, ip string, status string) {
	if details == nil {
		details = make(map[string]interface{})
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	entry := &AuditLog{
		UserID:    userID,
		Action:    action,
		Details:   detailsJSON,
		IPAddress: ip,
		Status:    status,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		log.Printf("audit log write failed (%s): %v", action, err)
	}
}
