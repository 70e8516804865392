package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"chalan-service/internal/model"
)

func TestInventoryCreateAndListByClient(t *testing.T) {
	db := setupTestDB(t)

	db.Create(&model.Client{Name: "Acme"})

	c, rec := newJSONContext(http.MethodPost, "/api/inventory",
		`{"clientId":1,"itemName":"Visiting Cards","description":"300gsm"}`)
	asUser(c, "op", "add-only")
	if err := CreateInventoryItem(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", rec.Code, rec.Body.String())
	}

	db.Create(&model.InventoryItem{ClientID: 2, ItemName: "Other"})

	c, rec = newJSONContext(http.MethodGet, "/api/inventory?client_id=1", "")
	asUser(c, "op", "add-only")
	if err := ListInventory(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	var items []model.InventoryItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].ItemName != "Visiting Cards" {
		t.Fatalf("unexpected list: %+v", items)
	}
}

func TestInventoryUpdateNotFound(t *testing.T) {
	setupTestDB(t)

	c, rec := newJSONContext(http.MethodPut, "/api/inventory/9", `{"itemName":"X"}`)
	c.SetParamNames("id")
	c.SetParamValues("9")
	asUser(c, "op", "edit")
	_ = UpdateInventoryItem(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rec.Code)
	}
}

func TestInventorySuggest(t *testing.T) {
	db := setupTestDB(t)

	db.Create(&model.InventoryItem{ClientID: 1, ItemName: "Visiting Cards"})
	db.Create(&model.InventoryItem{ClientID: 1, ItemName: "Letterheads"})
	db.Create(&model.InventoryItem{ClientID: 1, ItemName: "ID Cards"})
	db.Create(&model.InventoryItem{ClientID: 2, ItemName: "Business Cards"})

	c, rec := newJSONContext(http.MethodGet, "/api/inventory/suggest?client_id=1&q=CARD", "")
	asUser(c, "op", "add-only")
	if err := SuggestInventory(c); err != nil {
		t.Fatalf("suggest: %v", err)
	}
	var names []string
	if err := json.Unmarshal(rec.Body.Bytes(), &names); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"Visiting Cards", "ID Cards"}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Fatalf("want %v, got %v", want, names)
	}
}

func TestInventorySuggestRequiresClient(t *testing.T) {
	setupTestDB(t)

	c, rec := newJSONContext(http.MethodGet, "/api/inventory/suggest?q=card", "")
	asUser(c, "op", "add-only")
	_ = SuggestInventory(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}
