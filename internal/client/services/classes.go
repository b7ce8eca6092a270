package services

import (
	"context"
	"errors"

	"github.com/gymnastic-app/gymcli/internal/client/api"
	"github.com/gymnastic-app/gymcli/internal/client/models"
)

// ErrIncompleteClass is returned when a scheduling request is missing any
// required field; the server is never called for incomplete submissions.
var ErrIncompleteClass = errors.New("all class fields are required")

// ClassService exposes the gym class catalog and the scheduling list.
type ClassService interface {
	Classes(ctx context.Context) ([]models.Class, error)
	ScheduledClasses(ctx context.Context) ([]models.ScheduledClass, error)
	Schedule(ctx context.Context, class models.ScheduledClass) error
}

type classService struct {
	client api.Client
}

func NewClassService(client api.Client) ClassService {
	return &classService{client: client}
}

func (c *classService) Classes(ctx context.Context) ([]models.Class, error) {
	return c.client.Classes(ctx)
}

func (c *classService) ScheduledClasses(ctx context.Context) ([]models.ScheduledClass, error) {
	return c.client.ScheduledClasses(ctx)
}

func (c *classService) Schedule(ctx context.Context, class models.ScheduledClass) error {
	if class.Trainer == "" || class.TrainerEmail == "" || class.ClassName == "" ||
		class.Duration == "" || class.Time == "" || class.Date == "" {
		return ErrIncompleteClass
	}
	return c.client.ScheduleClass(ctx, class)
}
