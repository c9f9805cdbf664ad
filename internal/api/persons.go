package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/kinnet/internal/assembler"
	"github.com/persistorai/kinnet/internal/domain"
	"github.com/persistorai/kinnet/internal/models"
)

// PersonHandler serves person lookups.
type PersonHandler struct {
	svc domain.PersonService
	log *logrus.Logger
}

// NewPersonHandler creates a PersonHandler.
func NewPersonHandler(svc domain.PersonService, log *logrus.Logger) *PersonHandler {
	return &PersonHandler{svc: svc, log: log}
}

type personResponse struct {
	models.PersonAttributes
	Label string `json:"label"`
}

// Get handles GET /persons/:id. The optional locale query picks the label.
func (h *PersonHandler) Get(c *gin.Context) {
	raw, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "person id must be an integer")

		return
	}

	p, err := h.svc.GetPerson(c.Request.Context(), models.PersonID(raw))
	if err != nil {
		handleServiceError(c, h.log, "persons.get", err)

		return
	}

	c.JSON(http.StatusOK, personResponse{
		PersonAttributes: p,
		Label:            assembler.Label(p.ID, p, c.DefaultQuery("locale", models.LocaleEnglish)),
	})
}
