package repositories

import (
	"errors"

	"gorm.io/gorm"

	"carelink_backend/internal/models"
)

// ErrActorNotFound is shared by the three actor stores. Historical records
// may reference deleted actors, so callers usually treat this as a
// data-integrity warning rather than a fatal error.
var ErrActorNotFound = errors.New("actor not found")

// The three actor variants live in disjoint tables with disjoint id spaces,
// hence three separate lookup repositories.

type PatientRepository interface {
	FindByID(id string) (*models.Patient, error)
}

type DoctorRepository interface {
	FindByID(id string) (*models.Doctor, error)
}

type AdminRepository interface {
	FindByID(id string) (*models.Admin, error)
}

type PatientRepositoryImpl struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &PatientRepositoryImpl{db: db}
}

func (r *PatientRepositoryImpl) FindByID(id string) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return &patient, nil
}

type DoctorRepositoryImpl struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &DoctorRepositoryImpl{db: db}
}

func (r *DoctorRepositoryImpl) FindByID(id string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.First(&doctor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return &doctor, nil
}

type AdminRepositoryImpl struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &AdminRepositoryImpl{db: db}
}

func (r *AdminRepositoryImpl) FindByID(id string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.First(&admin, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return &admin, nil
}
