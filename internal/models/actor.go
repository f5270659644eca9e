package models

import "time"

// ActorRole tags which identity space an actor id belongs to.
// Patient, doctor and admin ids live in separate tables, so an id
// is only meaningful together with its role.
type ActorRole string

const (
	ActorRolePatient ActorRole = "patient"
	ActorRoleDoctor  ActorRole = "doctor"
	ActorRoleAdmin   ActorRole = "admin"
)

func (r ActorRole) Valid() bool {
	switch r {
	case ActorRolePatient, ActorRoleDoctor, ActorRoleAdmin:
		return true
	}
	return false
}

// ActorRef is the (identifier, variant) pair used everywhere an actor is
// referenced. Never pass a bare id between components.
type ActorRef struct {
	ID   string    `json:"id"`
	Role ActorRole `json:"role"`
}

// Key returns the canonical "role:id" token for map keys and pair keys.
func (a ActorRef) Key() string {
	return string(a.Role) + ":" + a.ID
}

func (a ActorRef) Equal(b ActorRef) bool {
	return a.ID == b.ID && a.Role == b.Role
}

type Patient struct {
	BaseModel
	FirstName   string `gorm:"not null"`
	LastName    string `gorm:"not null"`
	Email       string `gorm:"uniqueIndex;not null"`
	Phone       string
	DateOfBirth *time.Time
	Gender      string
}

type Doctor struct {
	BaseModel
	FirstName      string `gorm:"not null"`
	LastName       string `gorm:"not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	Phone          string
	Specialization string `gorm:"index"`
	Department     string
}

type Admin struct {
	BaseModel
	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Title     string `gorm:"default:'Administrator'"`
}
