package validator

import (
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/validation"
)

type PropertyValidator struct {
	validate *validation.Validator
}

func NewPropertyValidator(log *logger.Logger) *PropertyValidator {
	v := validation.New(log)
	log.Info("Property validator initialized successfully")
	return &PropertyValidator{validate: v}
}

func (v *PropertyValidator) Validate(property *model.Property) error {
	return v.validate.Struct(property)
}

func (v *PropertyValidator) ValidateUpdate(update *model.PropertyUpdate) error {
	return v.validate.Struct(update)
}
