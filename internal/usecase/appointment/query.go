package appointment

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	businessID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return loadAppointment(ctx, uc.repo, businessID, appointmentID)
}

// ------------------------------------------------------

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Appointment, error) {

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, httperr.BadRequest("invalid_status",
			"unknown appointment status %q", filter.Status)
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, httperr.BadRequest("invalid_range", "from must be before to")
	}

	apps, err := uc.repo.ListAppointments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return apps, nil
}
