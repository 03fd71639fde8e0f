package service

import (
	"errors"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
)

const (
	msgCheckAvailability = "Error while checking for availability"
	msgListAppointments  = "Error while getting appointments"
	msgGetAppointment    = "Error while getting appointment"
	msgCreateAppointment = "Error while creating new appointment"
	msgUpdateAppointment = "Error while updating appointment"
	msgDeleteAppointment = "Error while deleting appointment"
	msgListUsers         = "Error while getting all users"
	msgGetUser           = "Error while getting user"
	msgCreateUser        = "Error while creating new user"
	msgUpdateUser        = "Error while updating user"
	msgDeleteUser        = "Error while deleting user"
	msgLogin             = "Error while logging in"
	msgHistory           = "Error while getting appointment history"
)

// storageErr passes domain errors through untouched and wraps anything else
// as an operational failure carrying msg.
func storageErr(msg string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Operational(msg, err)
}
