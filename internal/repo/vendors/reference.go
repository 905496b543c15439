package vendors

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// ownerMarker prefixes every reference this service writes into a
// vendor's free-text field. The vendor never interprets it; we recover
// ownership from it when sweeping listings.
const ownerMarker = "discord_"

// OwnerTag builds the reference embedded in a created product:
// discord_<userID>_<fnv32a(name)>. The hash keeps tags distinct per
// product name while staying stable across restarts.
func OwnerTag(userID, name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprintf("%s%s_%d", ownerMarker, userID, h.Sum32())
}

// OwnerID extracts the owning user id from a reference. Only references
// carrying the owner marker resolve; the id is the second underscore
// token.
func OwnerID(ref string) (string, bool) {
	if !strings.Contains(ref, ownerMarker) {
		return "", false
	}
	parts := strings.Split(ref, "_")
	if len(parts) < 2 {
		return "", false
	}
	return parts[1], true
}

// FilterByOwner keeps the products whose reference contains userID.
// Matching is substring containment, so callers passing short numeric
// ids accept the collision that "12" also matches "123".
func FilterByOwner(items []Product, userID string) []Product {
	if userID == "" {
		return nil
	}
	var owned []Product
	for _, item := range items {
		if strings.Contains(item.ExternalID, userID) {
			owned = append(owned, item)
		}
	}
	return owned
}
