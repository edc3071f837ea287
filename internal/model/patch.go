package model

import (
	"encoding/json"
	"fmt"
)

// Patch is a partial update. Nil fields are left untouched; a Description
// pointing at None clears the stored description.
type Patch struct {
	Title       *string
	Description *Optional[string]
	Completed   *bool
}

// TogglePatch flips the completion flag of t.
func TogglePatch(t Task) Patch {
	c := !t.Completed
	return Patch{Completed: &c}
}

// EditPatch replaces title and description. The description is trimmed and
// blank becomes absent.
func EditPatch(title string, description Optional[string]) Patch {
	d := description
	if s, ok := description.Get(); ok {
		d = Text(s)
	}
	return Patch{Title: &title, Description: &d}
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Apply returns t with the patch merged in.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// MarshalJSON emits only the fields that are set.
func (p Patch) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 3)
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.Completed != nil {
		m["completed"] = *p.Completed
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts the same shape MarshalJSON produces. Unknown keys
// are rejected.
func (p *Patch) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out Patch
	for k, raw := range m {
		switch k {
		case "title":
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("title: %w", err)
			}
			out.Title = &s
		case "description":
			var d Optional[string]
			if err := json.Unmarshal(raw, &d); err != nil {
				return fmt.Errorf("description: %w", err)
			}
			out.Description = &d
		case "completed":
			var c bool
			if err := json.Unmarshal(raw, &c); err != nil {
				return fmt.Errorf("completed: %w", err)
			}
			out.Completed = &c
		default:
			return fmt.Errorf("unknown column %q", k)
		}
	}
	*p = out
	return nil
}
