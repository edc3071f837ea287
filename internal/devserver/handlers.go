package devserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Makepad-fr/todosum/internal/model"
)

type insertBody struct {
	Title       string                 `json:"title"`
	Description model.Optional[string] `json:"description"`
	Completed   bool                   `json:"completed"`
}

func (s *Server) handleList(c *gin.Context) {
	if sel := c.DefaultQuery("select", "*"); sel != "*" {
		abort(c, http.StatusBadRequest, "PGRST100", "only select=* is supported")
		return
	}
	asc := false
	switch c.DefaultQuery("order", "created_at.desc") {
	case "created_at.desc":
	case "created_at.asc":
		asc = true
	default:
		abort(c, http.StatusBadRequest, "PGRST100", "only created_at ordering is supported")
		return
	}
	tasks, err := s.db.list(c.Request.Context(), asc)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// handleInsert accepts one object or an array of objects.
func (s *Server) handleInsert(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		abort(c, http.StatusBadRequest, "PGRST102", "invalid body")
		return
	}
	var rows []insertBody
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		var one insertBody
		err = json.Unmarshal(trimmed, &one)
		rows = []insertBody{one}
	} else {
		err = json.Unmarshal(trimmed, &rows)
	}
	if err != nil || len(rows) == 0 {
		abort(c, http.StatusBadRequest, "PGRST102", "invalid body")
		return
	}

	out := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		t, err := s.db.insert(c.Request.Context(), model.NewTask{Title: r.Title, Description: r.Description}, r.Completed)
		if err != nil {
			s.fail(c, err)
			return
		}
		out = append(out, t)
	}
	s.represent(c, http.StatusCreated, out)
}

func (s *Server) handleUpdate(c *gin.Context) {
	id, ok := eqID(c)
	if !ok {
		return
	}
	var p model.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		abort(c, http.StatusBadRequest, "PGRST204", err.Error())
		return
	}
	if p.IsEmpty() {
		abort(c, http.StatusBadRequest, "PGRST100", "empty patch")
		return
	}
	t, err := s.db.update(c.Request.Context(), id, p)
	if errors.Is(err, sql.ErrNoRows) {
		s.represent(c, http.StatusOK, []model.Task{})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	s.represent(c, http.StatusOK, []model.Task{t})
}

func (s *Server) handleDelete(c *gin.Context) {
	id, ok := eqID(c)
	if !ok {
		return
	}
	t, err := s.db.delete(c.Request.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		s.represent(c, http.StatusOK, []model.Task{})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	s.represent(c, http.StatusOK, []model.Task{t})
}

// represent echoes rows only when the client asked for them.
func (s *Server) represent(c *gin.Context, status int, rows []model.Task) {
	if !strings.Contains(c.GetHeader("Prefer"), "return=representation") {
		if status == http.StatusOK {
			status = http.StatusNoContent
		}
		c.Status(status)
		return
	}
	c.JSON(status, rows)
}

func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, model.ErrEmptyTitle) {
		abort(c, http.StatusBadRequest, "23514", err.Error())
		return
	}
	s.log.Error("query failed", "path", c.Request.URL.Path, "err", err)
	abort(c, http.StatusInternalServerError, "XX000", "internal error")
}

// eqID reads the id=eq.<id> filter. Writes without a filter are refused.
func eqID(c *gin.Context) (string, bool) {
	id, ok := strings.CutPrefix(c.Query("id"), "eq.")
	if !ok || id == "" {
		abort(c, http.StatusBadRequest, "21000", "an id=eq.<id> filter is required")
		return "", false
	}
	return id, true
}
