package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/hoseline/backend/internal/application/ledger"
	"github.com/hoseline/backend/internal/interfaces/http/middleware"
)

// AssemblyHandler handles assembly API endpoints
type AssemblyHandler struct {
	BaseHandler
	assemblyService *ledgerapp.AssemblyService
}

// NewAssemblyHandler creates a new AssemblyHandler
func NewAssemblyHandler(assemblyService *ledgerapp.AssemblyService) *AssemblyHandler {
	return &AssemblyHandler{assemblyService: assemblyService}
}

// DecisionRequest carries an approval decision
type DecisionRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// Create handles POST /assemblies
func (h *AssemblyHandler) Create(c *gin.Context) {
	var req ledgerapp.AssemblyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	assembly, err := h.assemblyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, assembly)
}

// Get handles GET /assemblies/:item
func (h *AssemblyHandler) Get(c *gin.Context) {
	item, err := itemParam(c, "item")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	assembly, err := h.assemblyService.GetByItem(c.Request.Context(), item)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, assembly)
}

// List handles GET /assemblies
func (h *AssemblyHandler) List(c *gin.Context) {
	var filter ledgerapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.assemblyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// NextItem handles GET /assemblies/next-item
func (h *AssemblyHandler) NextItem(c *gin.Context) {
	next, err := h.assemblyService.NextItem(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"next_item": next})
}

// Update handles PUT /assemblies/:item
func (h *AssemblyHandler) Update(c *gin.Context) {
	item, err := itemParam(c, "item")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req ledgerapp.AssemblyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	assembly, err := h.assemblyService.Update(c.Request.Context(), item, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, assembly)
}

// Decide handles POST /assemblies/:item/decision
func (h *AssemblyHandler) Decide(c *gin.Context) {
	item, err := itemParam(c, "item")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	assembly, err := h.assemblyService.Decide(c.Request.Context(), item, *req.Approved, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, assembly)
}

// Delete handles DELETE /assemblies/:item. With ?dry_run=true the
// cascade is computed and rolled back.
func (h *AssemblyHandler) Delete(c *gin.Context) {
	item, err := itemParam(c, "item")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	dryRun := c.Query("dry_run") == "true"

	report, err := h.assemblyService.Delete(c.Request.Context(), item, dryRun)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}
