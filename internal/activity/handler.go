package activity

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct{ service *Service }

func NewHandler(s *Service) *Handler { return &Handler{s} }

// ===========================
// Create Activity

type CreateActivityRequest struct {
	Title           string  `json:"title" binding:"required" example:"Algorithms study group"`
	Category        string  `json:"category" binding:"required" example:"Study"`
	Description     string  `json:"description" binding:"required"`
	HostUserID      string  `json:"hostUserId" binding:"required"`
	HostName        string  `json:"hostName" binding:"required"`
	LocationName    string  `json:"locationName" binding:"required" example:"Central Library 4F"`
	LocationLat     float64 `json:"locationLat"`
	LocationLng     float64 `json:"locationLng"`
	StartDateTime   string  `json:"startDateTime" binding:"required" example:"2025-03-01T10:00:00Z"`
	EndDateTime     string  `json:"endDateTime"`
	MaxParticipants int     `json:"maxParticipants" binding:"required"`
}

// Create godoc
// @Summary  Create an activity hosted by the requesting user
// @Tags     activities
// @Accept   json
// @Produce  json
// @Param    request body CreateActivityRequest true "activity payload"
// @Success  201 {object} map[string]interface{}
// @Security BearerAuth
// @Router   /activities [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartDateTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid startDateTime, expected ISO-8601"})
		return
	}

	var end *time.Time
	if req.EndDateTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.EndDateTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid endDateTime, expected ISO-8601"})
			return
		}
		end = &parsed
	}

	a, err := h.service.Create(CreateInput{
		Title:           req.Title,
		Category:        req.Category,
		Description:     req.Description,
		HostUserID:      req.HostUserID,
		HostName:        req.HostName,
		LocationName:    req.LocationName,
		LocationLat:     req.LocationLat,
		LocationLng:     req.LocationLng,
		StartDateTime:   start,
		EndDateTime:     end,
		MaxParticipants: req.MaxParticipants,
	}, c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		log.Printf("create activity failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create activity"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Activity created successfully",
		"activity": a,
	})
}

// ===========================
// List Activities

// List godoc
// @Summary  List activities, soonest first, optionally filtered by category
// @Tags     activities
// @Produce  json
// @Param    category query string false "category filter"
// @Success  200 {object} map[string]interface{}
// @Router   /activities [get]
func (h *Handler) List(c *gin.Context) {
	activities, err := h.service.List(c.Query("category"))
	if err != nil {
		log.Printf("list activities failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list activities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

// ===========================
// Join Activity

type JoinRequest struct {
	UserID string `json:"userId"`
}

// Join godoc
// @Summary  Join an activity if a slot is free and the user is not on the roster
// @Tags     activities
// @Accept   json
// @Produce  json
// @Param    id path string true "activity id"
// @Param    request body JoinRequest true "join payload"
// @Success  200 {object} map[string]interface{}
// @Security BearerAuth
// @Router   /activities/{id}/join [put]
func (h *Handler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User ID is required"})
		return
	}

	a, err := h.service.Join(c.Param("id"), req.UserID, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Activity not found"})
		case errors.Is(err, ErrAlreadyJoined):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Already joined this activity"})
		case errors.Is(err, ErrActivityFull):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Activity is full"})
		case errors.Is(err, ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			log.Printf("join activity %s failed: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not join activity"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Successfully joined activity",
		"activity": a,
	})
}
