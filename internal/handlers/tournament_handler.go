package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rugfork/internal/models"
	"rugfork/internal/services"
)

type TournamentHandler struct {
	tournaments *services.TournamentService
}

func NewTournamentHandler(tournaments *services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournaments: tournaments}
}

// GET /api/tournaments?active=true&page=&limit=
func (h *TournamentHandler) List(c *gin.Context) {
	page, err := h.tournaments.List(c.Request.Context(),
		c.Query("active") == "true",
		queryInt(c, "page", 1),
		queryInt(c, "limit", 20),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, page)
}

// GET /api/tournaments/:id
func (h *TournamentHandler) Get(c *gin.Context) {
	t, err := h.tournaments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, t)
}

// POST /api/tournaments
func (h *TournamentHandler) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.CreateTournamentRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.tournaments.Create(c.Request.Context(), a.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, t)
}

// POST /api/tournaments/:id/join
func (h *TournamentHandler) Join(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	p, err := h.tournaments.Join(c.Request.Context(), a.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, p)
}

// POST /api/tournaments/:id/finalize
func (h *TournamentHandler) Finalize(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	standings, err := h.tournaments.Finalize(c.Request.Context(), &a, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, standings)
}
