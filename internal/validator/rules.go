package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"carelink_backend/internal/models"
)

// registerCustomRules installs the domain validation tags.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Startup-time misconfiguration; refuse to run.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-actor-role", validateActorRole)
	mustRegister("is-appointment-status", validateAppointmentStatus)
	mustRegister("is-notification-category", validateNotificationCategory)
}

func validateActorRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // emptiness is the 'required' tag's concern
	}
	return models.ActorRole(value).Valid()
}

func validateAppointmentStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "scheduled", "completed", "cancelled":
		return true
	}
	return false
}

func validateNotificationCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidNotificationCategory(value)
}
