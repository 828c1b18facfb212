package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// userPayload is the wire shape of a user object. The password hash never
// leaves the server.
func userPayload(u *User) gin.H {
	payload := gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"university": u.University,
	}
	if u.Major != nil {
		payload["major"] = u.Major
	}
	if u.GraduationYear != nil {
		payload["graduation_year"] = u.GraduationYear
	}
	if u.Bio != nil {
		payload["bio"] = u.Bio
	}
	return payload
}

// ===============================
// Signup
// ===============================

type SignupRequest struct {
	Email      string `json:"email" binding:"required,email" example:"a@b.edu"`
	Password   string `json:"password" binding:"required,min=6" example:"secret123"`
	Name       string `json:"name" binding:"required" example:"Minji Kim"`
	University string `json:"university" binding:"required" example:"Seoul National University"`
}

// Signup godoc
// @Summary  Register a new user
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    request body SignupRequest true "signup payload"
// @Success  201 {object} map[string]interface{}
// @Router   /auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields required"})
		return
	}

	user, token, err := h.service.Signup(SignupInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		University: req.University,
	}, c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
			return
		}
		log.Printf("signup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Signup failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Signup successful",
		"token":   token,
		"user":    userPayload(user),
	})
}

// ===============================
// Login
// ===============================

type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"a@b.edu"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// Login godoc
// @Summary  Log in with email and password
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    request body LoginRequest true "login payload"
// @Success  200 {object} map[string]interface{}
// @Router   /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password required"})
		return
	}

	user, token, err := h.service.Login(LoginInput(req), c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		log.Printf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    userPayload(user),
	})
}

// ===============================
// Profile Update
// ===============================

type ProfileRequest struct {
	Major          *string `json:"major"`
	GraduationYear *string `json:"graduation_year"`
	Bio            *string `json:"bio"`
}

// UpdateProfile godoc
// @Summary  Update the optional profile fields of a user
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    userId path string true "user id"
// @Param    request body ProfileRequest true "profile payload"
// @Success  200 {object} map[string]interface{}
// @Security BearerAuth
// @Router   /auth/profile/{userId} [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := c.Param("id")

	// Identity matching only: a user may edit nobody's profile but their own.
	if authID, ok := c.Get("user_id"); ok && authID.(string) != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Cannot update another user's profile"})
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid profile payload"})
		return
	}

	user, token, err := h.service.UpdateProfile(userID, ProfileInput(req))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("profile update failed for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Profile update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated",
		"token":   token,
		"user":    userPayload(user),
	})
}
