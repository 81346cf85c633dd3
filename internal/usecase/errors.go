package usecase

import "errors"

var (
	ErrInternal           = errors.New("internal error")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAnalysisNotFound   = errors.New("analysis not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthDisabled       = errors.New("admin login disabled")
)

// Notifier publishes dashboard events. A nil Notifier is allowed.
type Notifier interface {
	Notify(event string, payload any)
}

const (
	EventAnalysisCreated = "analysis_created"
	EventAnalysisDeleted = "analysis_deleted"
	EventCatalogUpdated  = "catalog_updated"
)
