package dto

import (
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// AppointmentListDTO is the flattened calendar row returned by list endpoints.
type AppointmentListDTO struct {
	ID             uint      `json:"id"`
	StaffServiceID uint      `json:"staff_service_id"`
	StaffID        uint      `json:"staff_id"`
	ServiceName    string    `json:"service_name"`
	CustomerName   string    `json:"customer_name"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         string    `json:"status"`
	Price          float64   `json:"price"`
}

func NewAppointmentList(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, a := range apps {
		out = append(out, AppointmentListDTO{
			ID:             a.ID,
			StaffServiceID: a.StaffServiceID,
			StaffID:        a.StaffService.EmployeeID,
			ServiceName:    a.StaffService.ServiceDefinition.Name,
			CustomerName:   a.CustomerName,
			StartTime:      a.StartTime,
			EndTime:        a.EndTime,
			Status:         a.Status,
			Price:          a.StaffService.EffectivePrice(),
		})
	}
	return out
}
