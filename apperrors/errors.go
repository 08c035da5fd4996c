package apperrors

import "fmt"

// ValidationError means the caller supplied data that violates a structural
// or business invariant. It always carries enough context to correct the
// input; values are never silently clamped.
type ValidationError struct {
	Entity string
	ID     uint
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d: %s: %s", e.Entity, e.ID, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Entity, e.Field, e.Reason)
}

// NotFoundError means a referenced entity does not exist. It is always
// surfaced; lookups never default to a no-op.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// BusinessRuleError means the operation is structurally valid but forbidden
// by the entity's current lifecycle state.
type BusinessRuleError struct {
	Entity string
	ID     uint
	State  string
	Reason string
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s %d in state %s: %s", e.Entity, e.ID, e.State, e.Reason)
}

func Validation(entity string, id uint, field, reason string) error {
	return &ValidationError{Entity: entity, ID: id, Field: field, Reason: reason}
}

func NotFound(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func BusinessRule(entity string, id uint, state, reason string) error {
	return &BusinessRuleError{Entity: entity, ID: id, State: state, Reason: reason}
}
