package errors

import (
	"fmt"
	"time"
)

// Stage identifies the pipeline stage an error occurred in
type Stage string

const (
	// StageFetch represents catalog/reference fetch errors
	StageFetch Stage = "fetch"
	// StageParsing represents page or feed parsing errors
	StageParsing Stage = "parsing"
	// StageValidation represents price validation rejections
	StageValidation Stage = "validation"
	// StageSession represents browser session pool errors
	StageSession Stage = "session"
	// StagePosting represents posting sink errors
	StagePosting Stage = "posting"
	// StageStore represents persistence errors
	StageStore Stage = "store"
	// StageConfiguration represents configuration errors
	StageConfiguration Stage = "configuration"
)

// PipelineError carries enough context (stage, source, title) to diagnose
// a failed deal without inspecting the whole batch
type PipelineError struct {
	Stage   Stage
	Source  string
	Title   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	ctx := e.Source
	if e.Title != "" {
		ctx = fmt.Sprintf("%s/%s", e.Source, e.Title)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Stage, ctx, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Stage, ctx, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if a retry within the same run may succeed
func (e *PipelineError) IsRetryable() bool {
	switch e.Stage {
	case StageFetch, StagePosting:
		return true
	default:
		return false
	}
}

// New creates a new PipelineError
func New(stage Stage, source, title, message string, err error) *PipelineError {
	return &PipelineError{
		Stage:   stage,
		Source:  source,
		Title:   title,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewFetch creates a new fetch error
func NewFetch(source, message string, err error) *PipelineError {
	return New(StageFetch, source, "", message, err)
}

// NewParsing creates a new parsing error
func NewParsing(source, title, message string, err error) *PipelineError {
	return New(StageParsing, source, title, message, err)
}

// NewValidation creates a new validation rejection
func NewValidation(source, title, message string) *PipelineError {
	return New(StageValidation, source, title, message, nil)
}

// NewSession creates a new session pool error
func NewSession(source, message string, err error) *PipelineError {
	return New(StageSession, source, "", message, err)
}

// NewPosting creates a new posting sink error
func NewPosting(source, title, message string, err error) *PipelineError {
	return New(StagePosting, source, title, message, err)
}

// NewStore creates a new persistence error
func NewStore(message string, err error) *PipelineError {
	return New(StageStore, "", "", message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *PipelineError {
	return New(StageConfiguration, "", "", message, err)
}
