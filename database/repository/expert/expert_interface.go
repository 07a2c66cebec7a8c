package expertRepo

import (
	"context"

	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
)

// ExpertRepository defines data access for experts.
//
// ListAvailable intentionally does not filter by requested category: skill
// matching never categorically excludes an expert, so narrowing happens in the
// matcher via the minimum-score filter, not in the query.
type ExpertRepository interface {
	ListAvailable(ctx context.Context, businessID string) ([]models.Expert, error)
	GetByID(ctx context.Context, id int) (*models.Expert, error)
	Upsert(ctx context.Context, expert *models.Expert) error
	UpdateStatus(ctx context.Context, id int, status string) error
}
