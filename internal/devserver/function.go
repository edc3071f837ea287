package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Makepad-fr/todosum/internal/summary"
)

func (s *Server) handleFunction(c *gin.Context) {
	if c.Param("name") != s.cfg.Function {
		abort(c, http.StatusNotFound, "NOT_FOUND", "function not found")
		return
	}
	var req summary.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if len(req.Todos) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no todos provided"})
		return
	}

	digest := Digest(req)
	if s.cfg.WebhookURL == "" {
		s.log.Info("no webhook configured; summary not delivered", "todos", len(req.Todos))
		c.JSON(http.StatusOK, summary.Response{Message: "Summary generated (no webhook configured)", Summary: digest})
		return
	}
	if err := s.deliver(c.Request.Context(), digest); err != nil {
		s.log.Error("webhook delivery failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send summary"})
		return
	}
	c.JSON(http.StatusOK, summary.Response{Message: "Summary sent", Summary: digest})
}

// Digest renders the pending todos as a plain-text message.
func Digest(req summary.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Pending todos (%d)*\n", len(req.Todos))
	for i, t := range req.Todos {
		fmt.Fprintf(&b, "%d. %s", i+1, t.Title)
		if d, ok := t.Description.Get(); ok {
			fmt.Fprintf(&b, " - %s", d)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Server) deliver(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
