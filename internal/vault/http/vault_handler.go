// Package http provides the HTTP handlers of the vault API. Handlers validate
// the wire shape, call the vault use case and map its errors to status codes.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	"github.com/allisson/imageguard/internal/httputil"
	customValidation "github.com/allisson/imageguard/internal/validation"
	vaultDomain "github.com/allisson/imageguard/internal/vault/domain"
	"github.com/allisson/imageguard/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/imageguard/internal/vault/usecase"
)

// VaultHandler handles HTTP requests for vault operations.
type VaultHandler struct {
	vaultUseCase           vaultUseCase.VaultUseCase
	minPasswordLength      int
	updateRequiresPassword bool
	logger                 *slog.Logger
}

// NewVaultHandler creates a new vault handler with required dependencies.
func NewVaultHandler(
	vaultUseCase vaultUseCase.VaultUseCase,
	minPasswordLength int,
	updateRequiresPassword bool,
	logger *slog.Logger,
) *VaultHandler {
	return &VaultHandler{
		vaultUseCase:           vaultUseCase,
		minPasswordLength:      minPasswordLength,
		updateRequiresPassword: updateRequiresPassword,
		logger:                 logger,
	}
}

// RegisterRoutes mounts the vault routes on group.
func (h *VaultHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/create", h.CreateHandler)
	group.POST("/unlock", h.UnlockHandler)
	group.GET("/:imageHash", h.ExistsHandler)
	group.PUT("/:imageHash", h.UpdateHandler)
}

// imageHashParam validates the :imageHash URL parameter.
func imageHashParam(c *gin.Context) (string, error) {
	imageHash := c.Param("imageHash")
	if err := validation.Validate(imageHash, vaultDomain.ImageHashRules()...); err != nil {
		return "", customValidation.WrapValidationError(
			validation.Errors{"imageHash": err},
		)
	}
	return imageHash, nil
}

// ExistsHandler reports whether a vault is registered for the image hash.
// GET /api/vault/:imageHash - Returns 200 OK with {"exists": bool}.
func (h *VaultHandler) ExistsHandler(c *gin.Context) {
	imageHash, err := imageHashParam(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	exists, err := h.vaultUseCase.Exists(c.Request.Context(), imageHash)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ExistsResponse{Exists: exists})
}

// CreateHandler creates a new vault.
// POST /api/vault/create - Returns 201 Created.
func (h *VaultHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateVaultRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(h.minPasswordLength); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.vaultUseCase.Create(c.Request.Context(), req.ToInput()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{Message: "Vault created successfully!"})
}

// UnlockHandler returns the encrypted package once the master password verifies.
// POST /api/vault/unlock - Returns 200 OK with {"encryptedData", "salt", "iv"}.
func (h *VaultHandler) UnlockHandler(c *gin.Context) {
	var req dto.UnlockVaultRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	pkg, err := h.vaultUseCase.Unlock(c.Request.Context(), req.ImageHash, req.MasterPassword)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPackageToUnlockResponse(pkg))
}

// UpdateHandler replaces the encrypted package of an existing vault.
// PUT /api/vault/:imageHash - Returns 200 OK.
func (h *VaultHandler) UpdateHandler(c *gin.Context) {
	imageHash, err := imageHashParam(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateVaultRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(h.updateRequiresPassword); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.vaultUseCase.Update(c.Request.Context(), req.ToInput(imageHash)); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Vault updated successfully!"})
}
