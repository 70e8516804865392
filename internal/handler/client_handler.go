package handler

import (
	"net/http"
	"time"

	"chalan-service/internal/model"
	"chalan-service/pkg/database"
	"chalan-service/pkg/logger"
	"chalan-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ClientRequest defines the structure for client creation/update requests.
// Pointer fields distinguish "absent" from "empty" on partial updates.
type ClientRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

// ListClients handles retrieving all clients
func ListClients(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("client", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	var clients []model.Client
	if result := database.GetDB().Find(&clients); result.Error != nil {
		log.Error("Failed to list clients", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, clients)
}

// GetClient handles retrieving a single client by ID
func GetClient(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var client model.Client
	if result := database.GetDB().First(&client, id); result.Error != nil {
		log.Warn("Client not found", zap.String("client_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Client not found"})
	}

	return c.JSON(http.StatusOK, client)
}

// CreateClient handles creating a new client
func CreateClient(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("client", "create")

	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid client request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	client := model.Client{}
	applyClientFields(&client, &req)

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&client); result.Error != nil {
		log.Error("Failed to create client", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	log.Info("Client created", zap.Uint("client_id", client.ID), zap.String("name", client.Name))
	return c.JSON(http.StatusCreated, client)
}

// UpdateClient handles updating an existing client. Only the supplied
// fields are replaced.
func UpdateClient(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordEntityOperation("client", "update")

	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid client request data", zap.String("client_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var client model.Client
	if result := database.GetDB().First(&client, id); result.Error != nil {
		log.Warn("Client not found for update", zap.String("client_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Client not found"})
	}

	applyClientFields(&client, &req)

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&client); result.Error != nil {
		log.Error("Failed to update client", zap.String("client_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	log.Info("Client updated", zap.Uint("client_id", client.ID))
	return c.JSON(http.StatusOK, client)
}

// DeleteClient handles deleting a client row. Inventory and chalans
// referencing the client are left untouched; see CascadeDeleteClient.
// Deleting an absent id is not an error.
func DeleteClient(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordEntityOperation("client", "delete")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&model.Client{}, id); result.Error != nil {
		log.Error("Failed to delete client", zap.String("client_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	log.Info("Client deleted", zap.String("client_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Client deleted"})
}

// cascadeStep reports the outcome of one stage of a cascade delete.
type cascadeStep struct {
	Step    string `json:"step"`
	Deleted int64  `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// CascadeDeleteClient deletes a client together with its inventory and
// chalans as an explicit sequence of single-entity deletes. There is no
// transaction around the steps: a failure stops the sequence and the
// response reports exactly which steps completed, leaving reconciliation to
// the operator.
func CascadeDeleteClient(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordEntityOperation("client", "cascade_delete")

	db := database.GetDB()
	var steps []cascadeStep

	defer prometheus.TrackDBOperation("delete")(time.Now())

	// Chalans first so a partial failure never leaves a chalan pointing at
	// a deleted client. Item rows have no lifecycle of their own and go
	// with their chalans; the FK constraint alone is not relied on.
	var chalanIDs []uint
	if err := db.Model(&model.Chalan{}).Where("client_id = ?", id).Pluck("id", &chalanIDs).Error; err != nil {
		steps = append(steps, cascadeStep{Step: "chalans", Error: err.Error()})
		log.Error("Cascade stopped while collecting chalans", zap.String("client_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Cascade delete incomplete", "steps": steps})
	}
	if len(chalanIDs) > 0 {
		if result := db.Where("chalan_id IN ?", chalanIDs).Delete(&model.ChalanItem{}); result.Error != nil {
			steps = append(steps, cascadeStep{Step: "chalans", Error: result.Error.Error()})
			log.Error("Cascade stopped while deleting chalan items", zap.String("client_id", id), zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Cascade delete incomplete", "steps": steps})
		}
	}
	result := db.Where("client_id = ?", id).Delete(&model.Chalan{})
	steps = append(steps, cascadeStep{Step: "chalans", Deleted: result.RowsAffected})
	if result.Error != nil {
		steps[len(steps)-1].Error = result.Error.Error()
		log.Error("Cascade stopped while deleting chalans", zap.String("client_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Cascade delete incomplete", "steps": steps})
	}

	result = db.Where("client_id = ?", id).Delete(&model.InventoryItem{})
	steps = append(steps, cascadeStep{Step: "inventory", Deleted: result.RowsAffected})
	if result.Error != nil {
		steps[len(steps)-1].Error = result.Error.Error()
		log.Error("Cascade stopped while deleting inventory", zap.String("client_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Cascade delete incomplete", "steps": steps})
	}

	result = db.Delete(&model.Client{}, id)
	steps = append(steps, cascadeStep{Step: "client", Deleted: result.RowsAffected})
	if result.Error != nil {
		steps[len(steps)-1].Error = result.Error.Error()
		log.Error("Cascade stopped while deleting client", zap.String("client_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Cascade delete incomplete", "steps": steps})
	}

	log.Info("Client cascade delete completed", zap.String("client_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Client deleted", "steps": steps})
}

func applyClientFields(client *model.Client, req *ClientRequest) {
	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
}
