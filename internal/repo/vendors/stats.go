package vendors

// ComputeStats summarizes a full listing sweep. The latest design is the
// first item because vendors list newest first; an empty sweep yields
// zeros with a nil latest design, never a division by zero.
func ComputeStats(items []Product) *Stats {
	stats := &Stats{TotalDesigns: len(items)}

	users := make(map[string]struct{})
	for i := range items {
		if id, ok := OwnerID(items[i].ExternalID); ok {
			users[id] = struct{}{}
		}
	}
	stats.UniqueUsers = len(users)

	if stats.UniqueUsers > 0 {
		stats.DesignsPerUser = float64(stats.TotalDesigns) / float64(stats.UniqueUsers)
	}
	if len(items) > 0 {
		latest := items[0]
		stats.LatestDesign = &latest
	}
	return stats
}
