package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"rentora/internal/auth"
	"rentora/internal/domain"
	"rentora/internal/service"
	"rentora/internal/storage"
)

const storeTimeout = 5 * time.Second

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	properties service.PropertyService
	storage    storage.Service
	issuer     *auth.Issuer
	policy     *auth.Policy
	bucket     string
	keyPrefix  string
	logger     *logrus.Logger
}

func NewHandler(
	users service.UserService,
	properties service.PropertyService,
	store storage.Service,
	issuer *auth.Issuer,
	policy *auth.Policy,
	bucket, keyPrefix string,
	logger *logrus.Logger,
) *Handler {
	if policy == nil {
		policy = auth.DefaultPolicy()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:      users,
		properties: properties,
		storage:    store,
		issuer:     issuer,
		policy:     policy,
		bucket:     bucket,
		keyPrefix:  keyPrefix,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(h.sessionMiddleware)
	router.Use(h.guardMiddleware)

	router.GET("/", h.homePage)
	router.GET("/auth/sign-in", h.signInPage)
	router.GET("/unauthorized", h.unauthorizedPage)
	router.GET("/dashboard", h.dashboardPage)
	router.GET("/owner/properties", h.ownerPropertiesPage)
	router.GET("/tenant/rentals", h.tenantRentalsPage)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", h.signup)
			authGroup.POST("/login", h.login)
			authGroup.POST("/logout", h.logout)
			authGroup.GET("/session", requireSession, h.session)
		}

		api.GET("/properties", h.listProperties)
		api.GET("/properties/:id", h.getProperty)
		api.GET("/properties/:id/images", h.listPropertyImages)
		api.POST("/properties", requireRole(domain.RoleOwner), h.createProperty)
		api.POST("/properties/:id/rent", requireRole(domain.RoleTenant), h.rentProperty)
		api.POST("/properties/:id/images", requireRole(domain.RoleOwner), h.uploadPropertyImage)

		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type createPropertyRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required"`
	Country     string `json:"country" binding:"required"`
	Rent        int64  `json:"rent" binding:"required"`
}

// UserResponse is the client-facing view of a user. It never contains the
// password hash.
type UserResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Role             string   `json:"role"`
	Phone            string   `json:"phone,omitempty"`
	Properties       []string `json:"properties,omitempty"`
	RentedProperties []string `json:"rentedProperties,omitempty"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
}

type PropertyResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Country     string   `json:"country"`
	Rent        int64    `json:"rent"`
	Images      []string `json:"images,omitempty"`
	OwnerID     string   `json:"ownerId"`
	TenantID    string   `json:"tenantId,omitempty"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	user, err := h.users.Register(ctx, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		default:
			h.logger.WithError(err).Error("signup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User registered successfully",
		"user":    userToResponse(user),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifier and password are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	user, err := h.users.Authenticate(ctx, req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "No user found"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect password"})
		default:
			h.logger.WithError(err).Error("login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	token, err := h.issuer.Issue(auth.Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		h.logger.WithError(err).Error("issue session token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	setSessionCookie(c, token, int(h.issuer.TTL().Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userToResponse(user),
	})
}

func (h *Handler) logout(c *gin.Context) {
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func (h *Handler) session(c *gin.Context) {
	claims, _ := sessionClaims(c)
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    claims.UserID,
			"name":  claims.Name,
			"email": claims.Email,
			"role":  string(claims.Role),
		},
	})
}

func (h *Handler) createProperty(c *gin.Context) {
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	claims, _ := sessionClaims(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	property, err := h.properties.Create(ctx, service.CreatePropertyInput{
		OwnerID:     claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		Rent:        req.Rent,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		h.logger.WithError(err).Error("create property")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, propertyToResponse(property))
}

func (h *Handler) listProperties(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	properties, err := h.properties.List(ctx)
	if err != nil {
		h.logger.WithError(err).Error("list properties")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	resp := make([]PropertyResponse, len(properties))
	for i := range properties {
		resp[i] = propertyToResponse(&properties[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getProperty(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	property, err := h.properties.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPropertyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
			return
		}
		h.logger.WithError(err).Error("get property")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, propertyToResponse(property))
}

func (h *Handler) rentProperty(c *gin.Context) {
	claims, _ := sessionClaims(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	property, err := h.properties.Rent(ctx, c.Param("id"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPropertyNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
		case errors.Is(err, service.ErrPropertyUnavailable):
			c.JSON(http.StatusConflict, gin.H{"message": "Property is not available"})
		default:
			h.logger.WithError(err).Error("rent property")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, propertyToResponse(property))
}

func (h *Handler) uploadPropertyImage(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Image storage is not configured"})
		return
	}

	claims, _ := sessionClaims(c)
	propertyID := c.Param("id")

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "An image file is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	// verify ownership before touching the bucket so a rejected request
	// leaves nothing behind
	property, err := h.properties.Get(ctx, propertyID)
	if err != nil {
		if errors.Is(err, service.ErrPropertyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
			return
		}
		h.logger.WithError(err).Error("load property for image upload")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if property.OwnerID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.logger.WithError(err).Error("open uploaded image")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	defer src.Close()

	key := fmt.Sprintf("%s/%s/%s%s", h.keyPrefix, propertyID, uuid.NewString(), filepath.Ext(file.Filename))
	location, err := h.storage.UploadObject(c.Request.Context(), src, storage.UploadOptions{
		Bucket:      h.bucket,
		Key:         key,
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		h.logger.WithError(err).Error("upload property image")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	property, err = h.properties.AttachImage(ctx, propertyID, claims.UserID, location)
	if err != nil {
		// the record was not updated; remove the orphaned object
		if delErr := h.storage.DeletePrefix(c.Request.Context(), h.bucket, key); delErr != nil {
			h.logger.WithError(delErr).Warnf("remove orphaned image %s", key)
		}
		switch {
		case errors.Is(err, service.ErrPropertyNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
		case errors.Is(err, service.ErrNotListingOwner):
			c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		default:
			h.logger.WithError(err).Error("attach property image")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, propertyToResponse(property))
}

func (h *Handler) listPropertyImages(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Image storage is not configured"})
		return
	}

	prefix := fmt.Sprintf("%s/%s/", h.keyPrefix, c.Param("id"))
	objects, err := h.storage.ListObjects(c.Request.Context(), h.bucket, prefix)
	if err != nil {
		h.logger.WithError(err).Error("list property images")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	urls := make([]string, 0, len(objects))
	for _, obj := range objects {
		url, err := h.storage.GetObjectURL(c.Request.Context(), h.bucket, obj.Key, 15*time.Minute)
		if err != nil {
			h.logger.WithError(err).Error("presign property image")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
		urls = append(urls, url)
	}

	c.JSON(http.StatusOK, gin.H{"images": urls})
}

func (h *Handler) homePage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "home"})
}

func (h *Handler) signInPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "sign-in"})
}

func (h *Handler) unauthorizedPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "unauthorized", "message": "You do not have access to this page"})
}

func (h *Handler) dashboardPage(c *gin.Context) {
	claims, _ := sessionClaims(c)
	c.JSON(http.StatusOK, gin.H{"page": "dashboard", "name": claims.Name, "role": string(claims.Role)})
}

func (h *Handler) ownerPropertiesPage(c *gin.Context) {
	claims, _ := sessionClaims(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	user, err := h.users.GetByID(ctx, claims.UserID)
	if err != nil {
		h.logger.WithError(err).Error("load owner properties")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": "owner-properties", "properties": user.Properties})
}

func (h *Handler) tenantRentalsPage(c *gin.Context) {
	claims, _ := sessionClaims(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	user, err := h.users.GetByID(ctx, claims.UserID)
	if err != nil {
		h.logger.WithError(err).Error("load tenant rentals")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": "tenant-rentals", "rentedProperties": user.RentedProperties})
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		Role:             string(user.Role),
		Phone:            user.Phone,
		Properties:       user.Properties,
		RentedProperties: user.RentedProperties,
		CreatedAt:        user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        user.UpdatedAt.Format(time.RFC3339),
	}
}

func propertyToResponse(property *domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:          property.ID,
		Title:       property.Title,
		Description: property.Description,
		Address:     property.Address,
		City:        property.City,
		State:       property.State,
		Country:     property.Country,
		Rent:        property.Rent,
		Images:      property.Images,
		OwnerID:     property.OwnerID,
		TenantID:    property.TenantID,
		Status:      string(property.Status),
		CreatedAt:   property.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   property.UpdatedAt.Format(time.RFC3339),
	}
}
