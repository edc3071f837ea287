package app

import "github.com/Makepad-fr/todosum/internal/model"

// Intent is a request emitted by a view. Only the controller interprets
// intents against the remote services.
type Intent interface{ isIntent() }

type LoadIntent struct{}

type AddIntent struct {
	Title       string
	Description model.Optional[string]
}

type UpdateIntent struct {
	ID    string
	Patch model.Patch
}

type DeleteIntent struct{ ID string }

// SummarizeIntent carries the pending tasks captured when it was issued.
type SummarizeIntent struct{ Pending []model.Task }

func (LoadIntent) isIntent()      {}
func (AddIntent) isIntent()       {}
func (UpdateIntent) isIntent()    {}
func (DeleteIntent) isIntent()    {}
func (SummarizeIntent) isIntent() {}

// Result is the outcome of executing one intent. State applies it as a
// single transition.
type Result interface{ isResult() }

type Loaded struct{ Tasks []model.Task }

type Added struct{ Task model.Task }

// Updated holds the server echo in Task when the backend returned one.
type Updated struct {
	ID    string
	Patch model.Patch
	Task  *model.Task
}

type Deleted struct{ ID string }

type Summarized struct {
	Count   int
	Message string
}

type Failed struct{ Err *Error }

func (Loaded) isResult()     {}
func (Added) isResult()      {}
func (Updated) isResult()    {}
func (Deleted) isResult()    {}
func (Summarized) isResult() {}
func (Failed) isResult()     {}

// Notice returns the notification for r. An empty message means nothing
// should be shown.
func Notice(r Result) (msg string, isErr bool) {
	switch r := r.(type) {
	case Added:
		return "Todo added successfully!", false
	case Updated:
		return "Todo updated successfully!", false
	case Deleted:
		return "Todo deleted successfully!", false
	case Summarized:
		return "Summary generated and sent!", false
	case Failed:
		return r.Err.Kind.Message(), true
	}
	return "", false
}
