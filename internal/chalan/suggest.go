package chalan

import (
	"strings"

	"chalan-service/internal/model"
)

// Suggest returns the item names on record for a client whose text contains
// the query as a case-insensitive substring, in stored order. The list is
// advisory; it does not restrict what may be entered as particulars.
func Suggest(items []model.InventoryItem, clientID uint, query string) []string {
	q := strings.ToLower(query)
	var names []string
	for _, item := range items {
		if item.ClientID != clientID {
			continue
		}
		if strings.Contains(strings.ToLower(item.ItemName), q) {
			names = append(names, item.ItemName)
		}
	}
	return names
}
