package validator

import (
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/prepiq/prepiq-service/internal/errors"
	"github.com/prepiq/prepiq-service/internal/models"
)

// Validator wraps struct-tag validation with the custom domain tags.
type Validator struct {
	structValidator *validator.Validate
}

// New creates the centralized validator instance.
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)
	return &Validator{structValidator: structValidator}
}

// Validate validates struct tags and converts failures to ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("exam_format", validateExamFormat)
	validate.RegisterValidation("subject_priority", validateSubjectPriority)
	validate.RegisterValidation("preferred_study_time", validatePreferredStudyTime)
	validate.RegisterValidation("slot_type", validateSlotType)
	validate.RegisterValidation("weekday", validateWeekday)

	// report json field names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	switch models.DifficultyLevel(fl.Field().String()) {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		return true
	}
	return false
}

func validateExamFormat(fl validator.FieldLevel) bool {
	switch models.ExamFormat(fl.Field().String()) {
	case models.FormatJEEMain, models.FormatJEEAdvanced, models.FormatNEET, models.FormatGeneralPractice:
		return true
	}
	return false
}

func validateSubjectPriority(fl validator.FieldLevel) bool {
	switch models.SubjectPriority(fl.Field().String()) {
	case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		return true
	}
	return false
}

func validatePreferredStudyTime(fl validator.FieldLevel) bool {
	switch models.PreferredStudyTime(fl.Field().String()) {
	case models.StudyTimeMorning, models.StudyTimeAfternoon, models.StudyTimeEvening, models.StudyTimeNight:
		return true
	}
	return false
}

func validateSlotType(fl validator.FieldLevel) bool {
	switch models.SlotType(fl.Field().String()) {
	case models.SlotStudy, models.SlotBreak, models.SlotExtracurricular, models.SlotExamPrep:
		return true
	}
	return false
}

func validateWeekday(fl validator.FieldLevel) bool {
	return slices.Contains(models.Weekdays, fl.Field().String())
}
