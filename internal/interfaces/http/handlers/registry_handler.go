package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolCanon/internal/application/registry"
	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolCanon/pkg/errors"
	"github.com/turtacn/MolCanon/pkg/types/chem"
)

// RegistryHandler exposes canonicalization and registry operations over HTTP.
type RegistryHandler struct {
	service registry.Service
	logger  logging.Logger
}

// NewRegistryHandler constructs a RegistryHandler.
func NewRegistryHandler(service registry.Service, logger logging.Logger) *RegistryHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RegistryHandler{
		service: service,
		logger:  logger.Named("registry_handler"),
	}
}

// DecodeRequest is the body of POST /decode.
type DecodeRequest struct {
	IDCode      string `json:"idcode" binding:"required"`
	Coordinates string `json:"coordinates"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Canonicalize — POST /api/v1/canonicalize
// ─────────────────────────────────────────────────────────────────────────────

// Canonicalize computes the canonical identifier for a molecule without
// persisting anything.
func (h *RegistryHandler) Canonicalize(c *gin.Context) {
	var dto chem.MoleculeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, errors.InvalidParam("invalid molecule payload: "+err.Error()))
		return
	}

	result, err := h.service.Canonicalize(c.Request.Context(), &dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ─────────────────────────────────────────────────────────────────────────────
// Validate — POST /api/v1/validate
// ─────────────────────────────────────────────────────────────────────────────

// Validate checks a molecule's stereo annotations and returns the verdict.
// The verdict is returned with status 200 whether or not the molecule is
// valid; transport-level problems (malformed JSON, broken graph) are errors.
func (h *RegistryHandler) Validate(c *gin.Context) {
	var dto chem.MoleculeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, errors.InvalidParam("invalid molecule payload: "+err.Error()))
		return
	}

	verdict, err := h.service.Validate(c.Request.Context(), &dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, verdict)
}

// ─────────────────────────────────────────────────────────────────────────────
// Register — POST /api/v1/molecules
// ─────────────────────────────────────────────────────────────────────────────

// Register canonicalizes a molecule and stores it in the registry.  The call
// is idempotent: registering an already-known structure returns the existing
// entry with status 200, a new registration returns 201.
func (h *RegistryHandler) Register(c *gin.Context) {
	var dto chem.MoleculeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, errors.InvalidParam("invalid molecule payload: "+err.Error()))
		return
	}

	entry, created, err := h.service.Register(c.Request.Context(), &dto)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, entry)
}

// ─────────────────────────────────────────────────────────────────────────────
// Lookup — GET /api/v1/molecules/:idcode
// ─────────────────────────────────────────────────────────────────────────────

// Lookup fetches a registry entry by its canonical identifier.
func (h *RegistryHandler) Lookup(c *gin.Context) {
	idcode := c.Param("idcode")

	entry, err := h.service.Lookup(c.Request.Context(), idcode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ─────────────────────────────────────────────────────────────────────────────
// List — GET /api/v1/molecules
// ─────────────────────────────────────────────────────────────────────────────

// List returns one page of registry entries, newest first.
func (h *RegistryHandler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), parsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ─────────────────────────────────────────────────────────────────────────────
// Decode — POST /api/v1/decode
// ─────────────────────────────────────────────────────────────────────────────

// Decode expands a canonical identifier (and optional coordinate encoding)
// back into a molecule description.
func (h *RegistryHandler) Decode(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("invalid decode payload: "+err.Error()))
		return
	}

	dto, err := h.service.Decode(c.Request.Context(), req.IDCode, req.Coordinates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}
