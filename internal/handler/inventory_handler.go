package handler

import (
	"net/http"
	"strconv"
	"time"

	"chalan-service/internal/chalan"
	"chalan-service/internal/model"
	"chalan-service/pkg/database"
	"chalan-service/pkg/logger"
	"chalan-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// InventoryItemRequest defines the structure for inventory creation/update
// requests. Pointer fields distinguish "absent" from "empty" on partial
// updates.
type InventoryItemRequest struct {
	ClientID    *uint   `json:"clientId"`
	ItemName    *string `json:"itemName"`
	Description *string `json:"description"`
}

// ListInventory handles retrieving all inventory items, optionally filtered
// by client
func ListInventory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("inventory", "list")

	query := database.GetDB()
	if clientID := c.QueryParam("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var items []model.InventoryItem
	if result := query.Find(&items); result.Error != nil {
		log.Error("Failed to list inventory", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, items)
}

// CreateInventoryItem handles creating a new inventory item
func CreateInventoryItem(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("inventory", "create")

	var req InventoryItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid inventory request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	item := model.InventoryItem{}
	applyInventoryFields(&item, &req)

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&item); result.Error != nil {
		log.Error("Failed to create inventory item", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	log.Info("Inventory item created",
		zap.Uint("item_id", item.ID),
		zap.Uint("client_id", item.ClientID),
		zap.String("item_name", item.ItemName))
	return c.JSON(http.StatusCreated, item)
}

// UpdateInventoryItem handles updating an existing inventory item
func UpdateInventoryItem(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordEntityOperation("inventory", "update")

	var req InventoryItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid inventory request data", zap.String("item_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var item model.InventoryItem
	if result := database.GetDB().First(&item, id); result.Error != nil {
		log.Warn("Inventory item not found for update", zap.String("item_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Inventory item not found"})
	}

	applyInventoryFields(&item, &req)

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&item); result.Error != nil {
		log.Error("Failed to update inventory item", zap.String("item_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	log.Info("Inventory item updated", zap.Uint("item_id", item.ID))
	return c.JSON(http.StatusOK, item)
}

// DeleteInventoryItem handles deleting an inventory item. Deleting an
// absent id is not an error.
func DeleteInventoryItem(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordEntityOperation("inventory", "delete")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&model.InventoryItem{}, id); result.Error != nil {
		log.Error("Failed to delete inventory item", zap.String("item_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	log.Info("Inventory item deleted", zap.String("item_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Inventory item deleted"})
}

// SuggestInventory returns the item names on record for a client matching a
// partial text input, for particulars autocomplete
func SuggestInventory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("inventory", "suggest")

	clientID, err := strconv.ParseUint(c.QueryParam("client_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var items []model.InventoryItem
	if result := database.GetDB().Where("client_id = ?", clientID).Find(&items); result.Error != nil {
		log.Error("Failed to load inventory for suggestions", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	names := chalan.Suggest(items, uint(clientID), c.QueryParam("q"))
	if names == nil {
		names = []string{}
	}
	return c.JSON(http.StatusOK, names)
}

func applyInventoryFields(item *model.InventoryItem, req *InventoryItemRequest) {
	if req.ClientID != nil {
		item.ClientID = *req.ClientID
	}
	if req.ItemName != nil {
		item.ItemName = *req.ItemName
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
}
