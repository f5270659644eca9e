package services

import (
	"errors"

	"carelink_backend/internal/models"
	"carelink_backend/internal/repositories"
	"carelink_backend/internal/services/dto"
)

var ErrInvalidRole = errors.New("invalid actor role")

// IdentityService resolves an (id, role) pair to a display projection.
// The projection is for presentation only; authorization happens upstream.
type IdentityService interface {
	Resolve(ref models.ActorRef) (*dto.ActorSummary, error)
}

type identityService struct {
	patientRepo repositories.PatientRepository
	doctorRepo  repositories.DoctorRepository
	adminRepo   repositories.AdminRepository
}

func NewIdentityService(
	patientRepo repositories.PatientRepository,
	doctorRepo repositories.DoctorRepository,
	adminRepo repositories.AdminRepository,
) IdentityService {
	return &identityService{
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		adminRepo:   adminRepo,
	}
}

func (s *identityService) Resolve(ref models.ActorRef) (*dto.ActorSummary, error) {
	switch ref.Role {
	case models.ActorRolePatient:
		patient, err := s.patientRepo.FindByID(ref.ID)
		if err != nil {
			return nil, err
		}
		return &dto.ActorSummary{
			ID:          patient.ID,
			Role:        models.ActorRolePatient,
			FirstName:   patient.FirstName,
			LastName:    patient.LastName,
			DisplayName: patient.FirstName + " " + patient.LastName,
		}, nil

	case models.ActorRoleDoctor:
		doctor, err := s.doctorRepo.FindByID(ref.ID)
		if err != nil {
			return nil, err
		}
		return &dto.ActorSummary{
			ID:          doctor.ID,
			Role:        models.ActorRoleDoctor,
			FirstName:   doctor.FirstName,
			LastName:    doctor.LastName,
			DisplayName: "Dr. " + doctor.FirstName + " " + doctor.LastName,
		}, nil

	case models.ActorRoleAdmin:
		admin, err := s.adminRepo.FindByID(ref.ID)
		if err != nil {
			return nil, err
		}
		return &dto.ActorSummary{
			ID:          admin.ID,
			Role:        models.ActorRoleAdmin,
			FirstName:   admin.FirstName,
			LastName:    admin.LastName,
			DisplayName: admin.FirstName + " " + admin.LastName,
		}, nil
	}

	return nil, ErrInvalidRole
}
