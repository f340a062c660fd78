package handler

import (
	"github.com/gofiber/fiber/v2"

	"crudefi-api/internal/model"
	"crudefi-api/internal/response"
	"crudefi-api/internal/service"
)

type AssetHandler struct {
	*CrudHandler[model.Asset, *model.Asset]
	assetService *service.AssetService
}

func NewAssetHandler(assetService *service.AssetService) *AssetHandler {
	return &AssetHandler{
		CrudHandler:  NewCrudHandler(assetService.CrudService, "Asset"),
		assetService: assetService,
	}
}

// Depreciation returns the year-by-year schedule of an asset
// GET /api/assets/:id/depreciation
func (h *AssetHandler) Depreciation(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	schedule, err := h.assetService.Schedule(id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, schedule)
}
