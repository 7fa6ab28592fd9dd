package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/hoseline/backend/internal/application/ledger"
	"github.com/hoseline/backend/internal/domain/ledger"
	"github.com/hoseline/backend/internal/interfaces/http/middleware"
)

// ModuleHandler handles module record API endpoints for all seven kinds
type ModuleHandler struct {
	BaseHandler
	moduleService *ledgerapp.ModuleService
}

// NewModuleHandler creates a new ModuleHandler
func NewModuleHandler(moduleService *ledgerapp.ModuleService) *ModuleHandler {
	return &ModuleHandler{moduleService: moduleService}
}

func kindParam(c *gin.Context) (ledger.ModuleKind, error) {
	return ledger.ParseModuleKind(c.Param("kind"))
}

// Get handles GET /assemblies/:item/modules/:kind. An unlinked slot
// yields a success response with null data.
func (h *ModuleHandler) Get(c *gin.Context) {
	item, err := itemParam(c, "item")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	kind, err := kindParam(c)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	record, err := h.moduleService.GetForAssembly(c.Request.Context(), item, kind)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if record == nil {
		h.Success(c, nil)
		return
	}
	h.Success(c, record)
}

// Upsert handles PUT /assemblies/:item/modules/:kind
func (h *ModuleHandler) Upsert(c *gin.Context) {
	item, err := itemParam(c, "item")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	kind, err := kindParam(c)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	var req ledgerapp.UpsertModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.moduleService.Upsert(c.Request.Context(), item, kind, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if result.Mode == "created" {
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}

// Examples handles GET /modules/:kind/examples
func (h *ModuleHandler) Examples(c *gin.Context) {
	kind, err := kindParam(c)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	examples, err := h.moduleService.Examples(c.Request.Context(), kind)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, examples)
}
