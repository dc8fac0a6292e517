package errors

import (
	"errors"
	"fmt"
)

type ResourceNotFoundError struct {
	resource string
	id       string
}

func (e *ResourceNotFoundError) Error() string {
	if e.id == "" {
		return fmt.Sprintf("%s not found", e.resource)
	}
	return fmt.Sprintf("%s %q not found", e.resource, e.id)
}

func NewResourceNotFoundError(resource, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{resource: resource, id: id}
}

func NewSettingsNotFoundError() *ResourceNotFoundError {
	return &ResourceNotFoundError{resource: "settings"}
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// EvaluationError means the entity was already evaluated by another path.
// Workers treat it as handled and stay silent.
type EvaluationError struct {
	reason string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("already evaluated: %s", e.reason)
}

func NewEvaluationError(reason string) *EvaluationError {
	return &EvaluationError{reason: reason}
}

func IsEvaluationError(err error) bool {
	var e *EvaluationError
	return errors.As(err, &e)
}

type QueueStoppedError struct{}

func (e *QueueStoppedError) Error() string {
	return "mob processing queue is not running"
}

func NewQueueStoppedError() *QueueStoppedError {
	return &QueueStoppedError{}
}

func IsQueueStoppedError(err error) bool {
	var e *QueueStoppedError
	return errors.As(err, &e)
}

type UnauthorizedError struct {
	reason string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.reason)
}

func NewUnauthorizedError(reason string) *UnauthorizedError {
	return &UnauthorizedError{reason: reason}
}

func IsUnauthorizedError(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}
