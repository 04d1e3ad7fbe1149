package compute

import (
	"time"

	"github.com/google/uuid"

	"github.com/FuturFusion/compute-manager/shared/api"
)

type Server struct {
	ID             int64
	UUID           uuid.UUID `db:"primary=yes"`
	Name           string
	Status         api.ServerStatusType
	TaskState      api.TaskStateType
	VMState        api.VMStateType
	PowerState     api.PowerStateType
	TaskToken      uuid.UUID
	Locked         bool
	LockedReason   string
	FlavorID       string
	ImageID        string
	SecurityGroups []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Servers []Server

func (s Server) Validate() error {
	if s.UUID == uuid.Nil {
		return NewValidationErrf("Invalid server, UUID can not be empty")
	}

	if s.Name == "" {
		return NewValidationErrf("Invalid server, name can not be empty")
	}

	if s.FlavorID == "" {
		return NewValidationErrf("Invalid server, flavor can not be empty")
	}

	if s.ImageID == "" {
		return NewValidationErrf("Invalid server, image can not be empty")
	}

	err := s.Status.Validate()
	if err != nil {
		return NewValidationErrf("Invalid server status: %v", err)
	}

	err = s.TaskState.Validate()
	if err != nil {
		return NewValidationErrf("Invalid server task state: %v", err)
	}

	return nil
}

// IsBusy reports whether an asynchronous action is currently in flight.
func (s Server) IsBusy() bool {
	return s.TaskState != api.TASKSTATE_NONE
}

// HasSecurityGroup reports whether the named security group is attached.
func (s Server) HasSecurityGroup(name string) bool {
	for _, group := range s.SecurityGroups {
		if group == name {
			return true
		}
	}

	return false
}

// ToAPI converts the server to its wire representation.
func (s Server) ToAPI() api.Server {
	return api.Server{
		UUID:           s.UUID,
		Name:           s.Name,
		Status:         s.Status,
		TaskState:      s.TaskState,
		VMState:        s.VMState,
		PowerState:     s.PowerState,
		Locked:         s.Locked,
		LockedReason:   s.LockedReason,
		FlavorID:       s.FlavorID,
		ImageID:        s.ImageID,
		SecurityGroups: s.SecurityGroups,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
