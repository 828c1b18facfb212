package reports

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moa-app/moa-backend/internal/activity"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

func sendFile(c *gin.Context, data []byte, filename, contentType string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, contentType, data)
}

// ExportActivities godoc
// @Summary  Download the activity table as csv, xlsx or pdf
// @Tags     reports
// @Produce  octet-stream
// @Param    format query string true "csv | xlsx | pdf"
// @Security BearerAuth
// @Router   /reports/activities [get]
func (h *Handler) ExportActivities(c *gin.Context) {
	format := c.DefaultQuery("format", FormatCSV)

	data, filename, contentType, err := h.service.ExportActivities(format)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unsupported format, use csv, xlsx or pdf"})
			return
		}
		log.Printf("activities export failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Export failed"})
		return
	}

	sendFile(c, data, filename, contentType)
}

// ExportRoster godoc
// @Summary  Download one activity's roster (host only)
// @Tags     reports
// @Produce  octet-stream
// @Param    id path string true "activity id"
// @Param    format query string true "csv | xlsx | pdf"
// @Security BearerAuth
// @Router   /reports/activities/{id}/roster [get]
func (h *Handler) ExportRoster(c *gin.Context) {
	format := c.DefaultQuery("format", FormatCSV)

	requesterID, _ := c.Get("user_id")
	userID, _ := requesterID.(string)

	data, filename, contentType, err := h.service.ExportRoster(c.Param("id"), userID, format)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedFormat):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unsupported format, use csv, xlsx or pdf"})
		case errors.Is(err, activity.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Activity not found"})
		case errors.Is(err, ErrNotHost):
			c.JSON(http.StatusForbidden, gin.H{"message": "Only the host may export the roster"})
		default:
			log.Printf("roster export for activity %s failed: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Export failed"})
		}
		return
	}

	sendFile(c, data, filename, contentType)
}
