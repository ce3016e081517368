package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	for _, category := range ItemCategories {
		assert.True(t, ValidCategory(category), category)
	}

	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("Vehicles"))
	assert.False(t, ValidCategory("electronics"), "categories are case sensitive")
}

func TestValidLocation(t *testing.T) {
	for _, location := range ItemLocations {
		assert.True(t, ValidLocation(location), location)
	}

	assert.False(t, ValidLocation(""))
	assert.False(t, ValidLocation("Moon Base"))
}

func TestValidItemType(t *testing.T) {
	assert.True(t, ValidItemType(ItemTypeLost))
	assert.True(t, ValidItemType(ItemTypeFound))
	assert.False(t, ValidItemType(""))
	assert.False(t, ValidItemType("stolen"))
}

func TestValidItemStatus(t *testing.T) {
	assert.True(t, ValidItemStatus(ItemStatusActive))
	assert.True(t, ValidItemStatus(ItemStatusClaimed))
	assert.True(t, ValidItemStatus(ItemStatusResolved))
	assert.False(t, ValidItemStatus(""))
	assert.False(t, ValidItemStatus("pending"))
}

func TestValidClaimDecision(t *testing.T) {
	assert.True(t, ValidClaimDecision(ClaimStatusApproved))
	assert.True(t, ValidClaimDecision(ClaimStatusRejected))
	assert.False(t, ValidClaimDecision(ClaimStatusPending), "pending is not an owner decision")
	assert.False(t, ValidClaimDecision(""))
}

func TestHasClaimFrom(t *testing.T) {
	item := Item{
		OwnerID: 1,
		ClaimRequests: []ClaimRequest{
			{ClaimantID: 2, Status: ClaimStatusRejected},
			{ClaimantID: 3, Status: ClaimStatusPending},
		},
	}

	assert.True(t, item.HasClaimFrom(2), "rejected claims still block resubmission")
	assert.True(t, item.HasClaimFrom(3))
	assert.False(t, item.HasClaimFrom(4))
}
