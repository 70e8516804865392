package chalan

import (
	"reflect"
	"testing"

	"chalan-service/internal/model"
)

func TestSuggest(t *testing.T) {
	items := []model.InventoryItem{
		{ClientID: 1, ItemName: "Visiting Cards"},
		{ClientID: 1, ItemName: "Letterheads"},
		{ClientID: 2, ItemName: "Cardboard Boxes"},
		{ClientID: 1, ItemName: "ID Cards"},
	}

	tests := []struct {
		name     string
		clientID uint
		query    string
		want     []string
	}{
		{"case insensitive substring", 1, "card", []string{"Visiting Cards", "ID Cards"}},
		{"other client excluded", 2, "card", []string{"Cardboard Boxes"}},
		{"empty query matches all for client", 1, "", []string{"Visiting Cards", "Letterheads", "ID Cards"}},
		{"no match", 1, "banner", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(items, tt.clientID, tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Suggest(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
