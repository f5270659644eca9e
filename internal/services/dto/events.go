package dto

import "time"

// Domain events the fan-out orchestrator consumes. The CRUD layer that
// owns appointments and prescriptions persists them first and then hands
// the saved record's plain data over; nothing here can fail the primary
// mutation.

type AppointmentBookedEvent struct {
	AppointmentID string    `json:"appointment_id" validate:"required"`
	PatientID     string    `json:"patient_id" validate:"required"`
	DoctorID      string    `json:"doctor_id" validate:"required"`
	Date          time.Time `json:"date" validate:"required"`
	TimeSlot      string    `json:"time_slot" validate:"required"`
}

type AppointmentStatusEvent struct {
	AppointmentID string    `json:"appointment_id" validate:"required"`
	PatientID     string    `json:"patient_id" validate:"required"`
	DoctorID      string    `json:"doctor_id" validate:"required"`
	Status        string    `json:"status" validate:"required,is-appointment-status"`
	Date          time.Time `json:"date"`
	TimeSlot      string    `json:"time_slot"`
}

type PrescriptionIssuedEvent struct {
	PrescriptionID string `json:"prescription_id" validate:"required"`
	PatientID      string `json:"patient_id" validate:"required"`
	DoctorID       string `json:"doctor_id" validate:"required"`
	Medication     string `json:"medication" validate:"required"`
}
