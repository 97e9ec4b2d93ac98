package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationDataRoundTrip(t *testing.T) {
	data := ConversationData{
		FieldFullName: "ana maría pérez",
		FieldEPS:      "particular",
	}

	value, err := data.Value()
	require.NoError(t, err)

	var scanned ConversationData
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, data, scanned)
}

func TestConversationDataValueEmpty(t *testing.T) {
	value, err := ConversationData{}.Value()
	require.NoError(t, err)
	assert.Nil(t, value, "empty data stores as NULL")

	var scanned ConversationData
	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)
}

func TestConversationDataScanRejectsOddTypes(t *testing.T) {
	var scanned ConversationData
	assert.Error(t, scanned.Scan(42))
}

func TestConversationDataClone(t *testing.T) {
	original := ConversationData{FieldEPS: "sura"}
	clone := original.Clone()
	clone[FieldEPS] = "particular"

	assert.Equal(t, "sura", original[FieldEPS])
	assert.Equal(t, "particular", clone[FieldEPS])
}

func TestConversationIsStale(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	conv := &Conversation{UpdatedAt: now.Add(-23 * time.Hour)}
	assert.False(t, conv.IsStale(now))

	conv.UpdatedAt = now.Add(-24 * time.Hour)
	assert.False(t, conv.IsStale(now), "exactly 24h is the boundary, still live")

	conv.UpdatedAt = now.Add(-24*time.Hour - time.Second)
	assert.True(t, conv.IsStale(now))
}
