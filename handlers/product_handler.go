package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/TarekGohar/cleano-software-sub002/database"
	"github.com/TarekGohar/cleano-software-sub002/models"
)

type ProductHandler struct{}

func NewProductHandler() *ProductHandler { return &ProductHandler{} }

type productPayload struct {
	Name         string   `json:"name"`
	SKU          string   `json:"sku"`
	Quantity     *int     `json:"quantity"`
	UnitCost     *float64 `json:"unit_cost"`
	ReorderLevel *int     `json:"reorder_level"`
}

// GET /products?low=1 filters to rows at or below their reorder level.
func (h *ProductHandler) List(c echo.Context) error {
	q := database.DB.Order("name ASC")
	if c.QueryParam("low") == "1" {
		q = q.Where("quantity <= reorder_level")
	}
	var items []models.Product
	if err := q.Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, items)
}

// POST /products
func (h *ProductHandler) Create(c echo.Context) error {
	var p productPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}

	fields := map[string]string{}
	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = "name is required"
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		fields["quantity"] = "quantity must not be negative"
	}
	if len(fields) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fields})
	}

	item := models.Product{
		Name: strings.TrimSpace(p.Name),
		SKU:  strings.TrimSpace(p.SKU),
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.UnitCost != nil {
		item.UnitCost = *p.UnitCost
	}
	if p.ReorderLevel != nil {
		item.ReorderLevel = *p.ReorderLevel
	}
	if err := database.DB.Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": item.ID})
}

// PUT /products/:id
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := mustID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_ID"})
	}
	var item models.Product
	if err := database.DB.First(&item, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	var p productPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}

	if p.Name != "" {
		item.Name = strings.TrimSpace(p.Name)
	}
	if p.SKU != "" {
		item.SKU = strings.TrimSpace(p.SKU)
	}
	if p.Quantity != nil {
		if *p.Quantity < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "quantity invalid"})
		}
		item.Quantity = *p.Quantity
	}
	if p.UnitCost != nil {
		item.UnitCost = *p.UnitCost
	}
	if p.ReorderLevel != nil {
		item.ReorderLevel = *p.ReorderLevel
	}

	if err := database.DB.Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, item)
}

// DELETE /products/:id
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := mustID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_ID"})
	}
	tx := database.DB.Delete(&models.Product{}, id)
	if tx.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{"error": "DB_DELETE_FAILED"})
	}
	if tx.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}
