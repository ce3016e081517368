package models

import (
	"time"
)

// Item statuses
const (
	ItemStatusActive   = "active"
	ItemStatusClaimed  = "claimed"
	ItemStatusResolved = "resolved"
)

// Item types
const (
	ItemTypeLost  = "lost"
	ItemTypeFound = "found"
)

// Claim request statuses
const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
)

// Categories an item can be reported under.
var ItemCategories = []string{
	"Electronics",
	"Books & Stationery",
	"Clothing & Accessories",
	"ID & Cards",
	"Bags",
	"Keys",
	"Jewelry",
	"Sports Equipment",
	"Other",
}

// Campus zones an item can be reported at.
var ItemLocations = []string{
	"Library",
	"Cafeteria",
	"Main Block",
	"Hostel Block A",
	"Hostel Block B",
	"Sports Complex",
	"Parking Area",
	"Lecture Hall Complex",
	"Admin Block",
	"Labs & Workshop",
	"Other",
}

type Item struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string         `gorm:"size:200;not null" json:"title"`
	Category      string         `gorm:"size:50;not null" json:"category"`
	Type          string         `gorm:"size:10;not null" json:"type"` // "lost" or "found"
	Description   string         `gorm:"size:2000;not null" json:"description"`
	Location      string         `gorm:"size:50;not null" json:"location"`
	Image         *string        `json:"image"`
	Date          time.Time      `gorm:"not null" json:"date"`
	OwnerID       uint           `gorm:"not null;index" json:"ownerId"`
	Owner         User           `gorm:"foreignKey:OwnerID" json:"owner"`
	Status        string         `gorm:"size:20;not null;default:'active'" json:"status"`
	ClaimRequests []ClaimRequest `gorm:"foreignKey:ItemID" json:"claimRequests"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// ClaimRequest is owned exclusively by its Item. The composite unique index
// on (item_id, claimant_id) makes duplicate submission impossible even under
// concurrent requests.
type ClaimRequest struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID     uint      `gorm:"not null;uniqueIndex:idx_claims_item_claimant" json:"itemId"`
	ClaimantID uint      `gorm:"not null;uniqueIndex:idx_claims_item_claimant" json:"claimantId"`
	Claimant   User      `gorm:"foreignKey:ClaimantID" json:"claimant"`
	Message    string    `gorm:"size:2000;not null" json:"message"`
	Status     string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// HasClaimFrom reports whether the given user already has a claim request on
// the item, regardless of its status.
func (i *Item) HasClaimFrom(userID uint) bool {
	for _, claim := range i.ClaimRequests {
		if claim.ClaimantID == userID {
			return true
		}
	}
	return false
}

func ValidCategory(category string) bool {
	for _, c := range ItemCategories {
		if c == category {
			return true
		}
	}
	return false
}

func ValidLocation(location string) bool {
	for _, l := range ItemLocations {
		if l == location {
			return true
		}
	}
	return false
}

func ValidItemType(itemType string) bool {
	return itemType == ItemTypeLost || itemType == ItemTypeFound
}

func ValidItemStatus(status string) bool {
	switch status {
	case ItemStatusActive, ItemStatusClaimed, ItemStatusResolved:
		return true
	}
	return false
}

// ValidClaimDecision reports whether the status is a valid owner decision on
// a pending claim request.
func ValidClaimDecision(status string) bool {
	return status == ClaimStatusApproved || status == ClaimStatusRejected
}
