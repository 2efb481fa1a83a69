package adsorption

import (
	"errors"
	"fmt"
)

// Domain errors for measurement construction and closure evaluation.
var (
	// ErrMissingField indicates a mandatory measurement field was not supplied.
	ErrMissingField = errors.New("adsorption: mandatory measurement field missing")

	// ErrMissingCalibration indicates a closure-specific calibration field
	// (d_A, d_S or V_p) required by the chosen model is absent.
	ErrMissingCalibration = errors.New("adsorption: required calibration field missing")

	// ErrShapeMismatch indicates batched fields with inconsistent lengths.
	ErrShapeMismatch = errors.New("adsorption: batched fields have inconsistent lengths")

	// ErrDivisionSingularity indicates a model denominator vanished for the
	// given inputs; the chosen closure is inapplicable to that data point.
	ErrDivisionSingularity = errors.New("adsorption: model denominator is zero")

	// ErrInvalidField indicates a field value outside its valid range
	// (non-positive volume/density/mass, negative concentration, NaN or Inf).
	ErrInvalidField = errors.New("adsorption: field value out of valid range")
)

// FieldError wraps one of the sentinel errors with the field it concerns.
type FieldError struct {
	Field   string
	Detail  string
	Wrapped error
}

func (e *FieldError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v: %s", e.Wrapped, e.Field)
	}
	return fmt.Sprintf("%v: %s (%s)", e.Wrapped, e.Field, e.Detail)
}

func (e *FieldError) Unwrap() error { return e.Wrapped }

func missingField(field string) error {
	return &FieldError{Field: field, Wrapped: ErrMissingField}
}

func missingCalibration(model Model, field string) error {
	return &FieldError{Field: field, Detail: "required by " + model.String(), Wrapped: ErrMissingCalibration}
}

func invalidField(field, detail string) error {
	return &FieldError{Field: field, Detail: detail, Wrapped: ErrInvalidField}
}

func shapeMismatch(field string, got, want int) error {
	return &FieldError{
		Field:   field,
		Detail:  fmt.Sprintf("length %d, want %d", got, want),
		Wrapped: ErrShapeMismatch,
	}
}

// SingularityError reports which denominator of which model vanished, and for
// which run of the batch, so the caller can pick a different closure.
type SingularityError struct {
	Model       Model
	Denominator string
	Run         int
}

func (e *SingularityError) Error() string {
	return fmt.Sprintf("%v: model %s, denominator %s, run %d",
		ErrDivisionSingularity, e.Model, e.Denominator, e.Run)
}

func (e *SingularityError) Unwrap() error { return ErrDivisionSingularity }
