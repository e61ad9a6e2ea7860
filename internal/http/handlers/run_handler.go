// README: Run handlers for submitting simulations and reading their results.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ridepool/internal/ai"
	"ridepool/internal/http/middleware"
	"ridepool/internal/modules/run"
)

// maxInputBytes bounds a submitted input document.
const maxInputBytes = 8 << 20

type RunService interface {
	Submit(ctx context.Context, cmd run.SubmitCommand) (*run.Run, error)
	Get(ctx context.Context, id string) (*run.Run, error)
	List(ctx context.Context, limit int) ([]*run.Run, error)
	Output(ctx context.Context, id string) (string, error)
	Insight(ctx context.Context, id, caller string) (*ai.Insight, error)
}

type RunHandler struct {
	runs        RunService
	defaultSort bool
}

func NewRunHandler(svc RunService, defaultSort bool) *RunHandler {
	return &RunHandler{runs: svc, defaultSort: defaultSort}
}

type submitRunReq struct {
	Input string `json:"input"`
	Sort  *bool  `json:"sort,omitempty"`
}

type submitRunResp struct {
	*run.Run
	Output string `json:"output"`
}

// Submit accepts the input as text/plain or as JSON {"input": "..."}.
// The sort query parameter overrides both the body and the server default.
func (h *RunHandler) Submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxInputBytes)

	sortInput := h.defaultSort
	var input string
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req submitRunReq
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
		input = req.Input
		if req.Sort != nil {
			sortInput = *req.Sort
		}
	} else {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(c, http.StatusRequestEntityTooLarge, "input too large")
				return
			}
			writeError(c, http.StatusBadRequest, "unreadable body")
			return
		}
		input = string(raw)
	}
	if q := c.Query("sort"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid sort")
			return
		}
		sortInput = v
	}
	if strings.TrimSpace(input) == "" {
		writeError(c, http.StatusBadRequest, "missing input")
		return
	}

	r, err := h.runs.Submit(c.Request.Context(), run.SubmitCommand{
		Input: input,
		Sort:  sortInput,
		Owner: middleware.CallerUID(c),
	})
	if err != nil {
		writeRunError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, submitRunResp{Run: r, Output: r.Output})
}

func (h *RunHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid run id")
		return
	}
	r, err := h.runs.Get(c.Request.Context(), id)
	if err != nil {
		writeRunError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *RunHandler) List(c *gin.Context) {
	limit := 0
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			writeError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	runs, err := h.runs.List(c.Request.Context(), limit)
	if err != nil {
		writeRunError(c, err)
		return
	}
	if runs == nil {
		runs = []*run.Run{}
	}
	writeJSON(c, http.StatusOK, gin.H{"runs": runs})
}

func (h *RunHandler) Output(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid run id")
		return
	}
	out, err := h.runs.Output(c.Request.Context(), id)
	if err != nil {
		writeRunError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(out))
}

func (h *RunHandler) Insight(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid run id")
		return
	}
	insight, err := h.runs.Insight(c.Request.Context(), id, middleware.CallerUID(c))
	if err != nil {
		writeRunError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, insight)
}
