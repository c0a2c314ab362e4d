package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"courtflow/internal/live"
	"courtflow/internal/services"
	"courtflow/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *services.Service
	Hub     *live.Hub
}

func (h *Handler) PingHandler(c *gin.Context) {
	c.JSON(200, gin.H{"message": "pong"})
}

// GetState returns the current snapshot for a full page render.
func (h *Handler) GetState(c *gin.Context) {
	snap, err := h.Service.State()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session state"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// AddPlayers admits a batch of names, matching the bulk entry box in the UI.
func (h *Handler) AddPlayers(c *gin.Context) {
	var req struct {
		Names []string `json:"names" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("Error binding add players request", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "names list is required"})
		return
	}

	snap, added, err := h.Service.AddPlayers(req.Names)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add players"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "state": snap})
}

// SetAutoFill toggles automatic court filling.
func (h *Handler) SetAutoFill(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enabled flag is required"})
		return
	}

	snap, err := h.Service.SetAutoFill(*req.Enabled)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update auto-fill"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ResolveCourt records the winner of one court. Courts are addressed by
// zero-based index in the URL.
func (h *Handler) ResolveCourt(c *gin.Context) {
	court, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "court index must be a number"})
		return
	}
	var req struct {
		Winner session.Team `json:"winner" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "winner is required"})
		return
	}

	snap, acted, err := h.Service.Resolve(court, req.Winner)
	if err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resolved": acted, "state": snap})
}

// ResolveAll records winners for several courts at once.
func (h *Handler) ResolveAll(c *gin.Context) {
	var req struct {
		Outcomes map[string]session.Team `json:"outcomes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "outcomes map is required"})
		return
	}

	outcomes := make(map[int]session.Team, len(req.Outcomes))
	for key, side := range req.Outcomes {
		court, err := strconv.Atoi(key)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "court keys must be numbers"})
			return
		}
		outcomes[court] = side
	}

	snap, resolved, err := h.Service.ResolveAll(outcomes)
	if err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resolved": resolved, "state": snap})
}

// FillCourts assigns waiting players to every court that can be activated.
func (h *Handler) FillCourts(c *gin.Context) {
	snap, filled, err := h.Service.FillCourts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fill courts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"filled": filled, "state": snap})
}

// ResetCourt sends one court's players to the back of the queue.
func (h *Handler) ResetCourt(c *gin.Context) {
	court, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "court index must be a number"})
		return
	}

	snap, err := h.Service.ResetCourt(court)
	if err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ResetAllCourts clears every court.
func (h *Handler) ResetAllCourts(c *gin.Context) {
	snap, err := h.Service.ResetAllCourts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset courts"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ResetAll wipes the whole session.
func (h *Handler) ResetAll(c *gin.Context) {
	snap, err := h.Service.ResetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset session"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// WsHandler attaches a live client that receives every new snapshot.
func (h *Handler) WsHandler(c *gin.Context) {
	snap, err := h.Service.State()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session state"})
		return
	}
	h.Hub.Serve(c.Writer, c.Request, snap)
}

// respondOperationError maps engine errors onto status codes: bad input is
// the caller's fault, anything else means persistence broke.
func respondOperationError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrCourtIndex) || errors.Is(err, session.ErrUnknownTeam) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slog.Error("Error applying session operation", "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
}
