package domain

import "fmt"

// Error taxonomy shared by services and the HTTP boundary. Handlers match
// these with errors.As and map them to 4xx responses; anything else is a 500.

type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

type ConflictError struct {
	Entity string
	Field  string
	Value  string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

type InvalidTransitionError struct {
	From AlertStatus
	To   AlertStatus
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("alert is %s; cannot transition to %s", e.From, e.To)
}
