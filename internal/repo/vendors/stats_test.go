package vendors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refProduct(ref, name string) Product {
	return Product{ExternalID: ref, Name: name}
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name           string
		items          []Product
		wantTotal      int
		wantUsers      int
		wantPerUser    float64
		wantLatestName string
	}{
		{
			name:        "empty sweep yields zeros",
			items:       nil,
			wantTotal:   0,
			wantUsers:   0,
			wantPerUser: 0,
		},
		{
			name: "three designs across two users",
			items: []Product{
				refProduct("discord_123_456", "first"),
				refProduct("discord_789_012", "second"),
				refProduct("discord_123_789", "third"),
			},
			wantTotal:      3,
			wantUsers:      2,
			wantPerUser:    1.5,
			wantLatestName: "first",
		},
		{
			name: "references without owner marker count toward totals only",
			items: []Product{
				refProduct("discord_42_1", "tagged"),
				refProduct("legacy-import-77", "untagged"),
			},
			wantTotal:      2,
			wantUsers:      1,
			wantPerUser:    2,
			wantLatestName: "tagged",
		},
		{
			name: "single user single design",
			items: []Product{
				refProduct("discord_9_100", "only"),
			},
			wantTotal:      1,
			wantUsers:      1,
			wantPerUser:    1,
			wantLatestName: "only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ComputeStats(tt.items)
			require.NotNil(t, stats)
			assert.Equal(t, tt.wantTotal, stats.TotalDesigns)
			assert.Equal(t, tt.wantUsers, stats.UniqueUsers)
			assert.InDelta(t, tt.wantPerUser, stats.DesignsPerUser, 1e-9)

			if tt.wantLatestName == "" {
				assert.Nil(t, stats.LatestDesign)
			} else {
				require.NotNil(t, stats.LatestDesign)
				assert.Equal(t, tt.wantLatestName, stats.LatestDesign.Name)
			}
		})
	}
}

func TestComputeStatsLatestIsFirstPageItem(t *testing.T) {
	items := []Product{
		refProduct("discord_1_10", "newest"),
		refProduct("discord_1_11", "older"),
		refProduct("discord_2_12", "oldest"),
	}

	stats := ComputeStats(items)
	require.NotNil(t, stats.LatestDesign)
	assert.Equal(t, "newest", stats.LatestDesign.Name)
	assert.Equal(t, "discord_1_10", stats.LatestDesign.ExternalID)
}
