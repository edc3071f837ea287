package app

import (
	"errors"
	"fmt"
)

// Kind classifies a failed user action.
type Kind int

const (
	FetchFailed Kind = iota + 1
	CreateFailed
	UpdateFailed
	DeleteFailed
	SummarizeFailed
	// NothingToSummarize is raised before any remote call is made.
	NothingToSummarize
)

func (k Kind) String() string {
	switch k {
	case FetchFailed:
		return "FetchFailed"
	case CreateFailed:
		return "CreateFailed"
	case UpdateFailed:
		return "UpdateFailed"
	case DeleteFailed:
		return "DeleteFailed"
	case SummarizeFailed:
		return "SummarizeFailed"
	case NothingToSummarize:
		return "NothingToSummarize"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Message is the user-facing notification for the kind.
func (k Kind) Message() string {
	switch k {
	case FetchFailed:
		return "Failed to fetch todos"
	case CreateFailed:
		return "Failed to add todo"
	case UpdateFailed:
		return "Failed to update todo"
	case DeleteFailed:
		return "Failed to delete todo"
	case SummarizeFailed:
		return "Failed to generate summary"
	case NothingToSummarize:
		return "No pending todos to summarize"
	}
	return "Something went wrong"
}

// Error is a failed action and its cause.
type Error struct {
	Kind Kind
	Err  error
}

// Kind sentinels for errors.Is.
var (
	ErrFetchFailed        = &Error{Kind: FetchFailed}
	ErrCreateFailed       = &Error{Kind: CreateFailed}
	ErrUpdateFailed       = &Error{Kind: UpdateFailed}
	ErrDeleteFailed       = &Error{Kind: DeleteFailed}
	ErrSummarizeFailed    = &Error{Kind: SummarizeFailed}
	ErrNothingToSummarize = &Error{Kind: NothingToSummarize}
)

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func fail(k Kind, err error) *Error { return &Error{Kind: k, Err: err} }
