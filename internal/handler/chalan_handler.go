package handler

import (
	"net/http"
	"strconv"
	"time"

	"chalan-service/internal/chalan"
	"chalan-service/internal/model"
	"chalan-service/pkg/database"
	"chalan-service/pkg/jwtutil"
	"chalan-service/pkg/logger"
	"chalan-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ChalanRequest defines the structure for chalan creation/update requests.
// A zero SerialNumber asks the server to assign the next one for the client.
type ChalanRequest struct {
	ClientID     uint               `json:"clientId"`
	SerialNumber int                `json:"serialNumber"`
	Date         string             `json:"date"`
	PODate       string             `json:"poDate"`
	PONumber     string             `json:"poNumber"`
	VehicleNo    string             `json:"vehicleNo"`
	Remarks      string             `json:"remarks"`
	Items        []model.ChalanItem `json:"items"`
}

// ListChalans handles retrieving all chalans with their items, optionally
// filtered by client
func ListChalans(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("chalan", "list")

	query := database.GetDB().Preload("Items")
	if clientID := c.QueryParam("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var chalans []model.Chalan
	if result := query.Find(&chalans); result.Error != nil {
		log.Error("Failed to list chalans", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, chalans)
}

// GetChalan handles retrieving a single chalan by ID
func GetChalan(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var doc model.Chalan
	if result := database.GetDB().Preload("Items").First(&doc, id); result.Error != nil {
		log.Warn("Chalan not found", zap.String("chalan_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Chalan not found"})
	}

	return c.JSON(http.StatusOK, doc)
}

// NextSerial returns the serial number the next chalan for a client should
// carry. The value is advisory: it is recomputed at creation time and two
// concurrent submissions can still collide.
func NextSerial(c echo.Context) error {
	log := logger.FromContext(c)

	clientID, err := strconv.ParseUint(c.QueryParam("client_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	serial, err := chalan.NextSerialNumber(database.GetDB(), uint(clientID))
	if err != nil {
		log.Error("Failed to compute next serial", zap.Uint64("client_id", clientID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"serialNumber": serial})
}

// CreateChalan handles creating a new chalan. The client record is copied
// into the chalan as a point-in-time snapshot, blank item lines are dropped
// and line totals are derived before the document is stored.
func CreateChalan(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("chalan", "create")

	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	if !ok {
		log.Error("Failed to get user claims from context")
		prometheus.RecordAuthError("missing_claims")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req ChalanRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid chalan request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	// The snapshot needs the client row; an unknown client cannot be
	// referenced by a chalan.
	var client model.Client
	if result := database.GetDB().First(&client, req.ClientID); result.Error != nil {
		log.Warn("Chalan submitted for unknown client", zap.Uint("client_id", req.ClientID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "client not found"})
	}

	items := chalan.PrepareItems(req.Items)
	if err := chalan.ValidateItems(items); err != nil {
		log.Warn("Chalan rejected", zap.Uint("client_id", req.ClientID), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	serial := req.SerialNumber
	if serial == 0 {
		var err error
		serial, err = chalan.NextSerialNumber(database.GetDB(), req.ClientID)
		if err != nil {
			log.Error("Failed to compute serial number", zap.Uint("client_id", req.ClientID), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
	}

	doc := model.Chalan{
		ClientID: req.ClientID,
		Client: model.ClientSnapshot{
			Name:    client.Name,
			Address: client.Address,
			Phone:   client.Phone,
			Email:   client.Email,
		},
		SerialNumber: serial,
		Date:         req.Date,
		PODate:       req.PODate,
		PONumber:     req.PONumber,
		VehicleNo:    req.VehicleNo,
		Remarks:      req.Remarks,
		Items:        items,
		CreatedBy:    claims.Username,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&doc); result.Error != nil {
		log.Error("Failed to create chalan", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	log.Info("Chalan created",
		zap.Uint("chalan_id", doc.ID),
		zap.Uint("client_id", doc.ClientID),
		zap.Int("serial_number", doc.SerialNumber),
		zap.Int("items", len(doc.Items)),
		zap.String("created_by", doc.CreatedBy))
	return c.JSON(http.StatusCreated, doc)
}

// UpdateChalan handles updating an existing chalan. Item lines are
// reconciled against the stored ones so a factor change recomputes the line
// total while a direct override survives. The embedded client snapshot is
// never refreshed.
func UpdateChalan(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordEntityOperation("chalan", "update")

	var req ChalanRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid chalan request data", zap.String("chalan_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var doc model.Chalan
	if result := database.GetDB().Preload("Items").First(&doc, id); result.Error != nil {
		log.Warn("Chalan not found for update", zap.String("chalan_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Chalan not found"})
	}

	items := chalan.ReconcileItems(doc.Items, req.Items)
	if err := chalan.ValidateItems(items); err != nil {
		log.Warn("Chalan update rejected", zap.String("chalan_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	// Items are replaced wholesale; stored rows are dropped and the
	// reconciled lines inserted fresh.
	for i := range items {
		items[i].ID = 0
		items[i].ChalanID = doc.ID
	}

	if req.SerialNumber != 0 {
		doc.SerialNumber = req.SerialNumber
	}
	doc.Date = req.Date
	doc.PODate = req.PODate
	doc.PONumber = req.PONumber
	doc.VehicleNo = req.VehicleNo
	doc.Remarks = req.Remarks
	doc.Items = items

	defer prometheus.TrackDBOperation("update")(time.Now())
	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	if result := tx.Where("chalan_id = ?", doc.ID).Delete(&model.ChalanItem{}); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to replace chalan items", zap.String("chalan_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	if result := tx.Save(&doc); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to update chalan", zap.String("chalan_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit chalan update", zap.String("chalan_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	log.Info("Chalan updated", zap.Uint("chalan_id", doc.ID), zap.Int("items", len(doc.Items)))
	return c.JSON(http.StatusOK, doc)
}

// DeleteChalan handles deleting a chalan and its items. Deleting an absent
// id is not an error.
func DeleteChalan(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordEntityOperation("chalan", "delete")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	db := database.GetDB()
	if result := db.Where("chalan_id = ?", id).Delete(&model.ChalanItem{}); result.Error != nil {
		log.Error("Failed to delete chalan items", zap.String("chalan_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if result := db.Delete(&model.Chalan{}, id); result.Error != nil {
		log.Error("Failed to delete chalan", zap.String("chalan_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	log.Info("Chalan deleted", zap.String("chalan_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Chalan deleted"})
}
