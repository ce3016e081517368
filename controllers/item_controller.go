package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-finds/api-go/models"
	"github.com/campus-finds/api-go/utils"
	"gorm.io/gorm"
)

type ItemController struct {
	DB      *gorm.DB
	Uploads *UploadController
}

type CreateItemRequest struct {
	Title       string `form:"title" json:"title" binding:"required,max=200"`
	Category    string `form:"category" json:"category" binding:"required"`
	Type        string `form:"type" json:"type" binding:"required,oneof=lost found"`
	Description string `form:"description" json:"description" binding:"required,max=2000"`
	Location    string `form:"location" json:"location" binding:"required"`
	Date        string `form:"date" json:"date" binding:"required"`
}

// UpdateItemRequest carries the owner-editable fields. Empty means "leave
// unchanged"; type and owner are immutable after creation.
type UpdateItemRequest struct {
	Title       string `form:"title" json:"title" binding:"omitempty,max=200"`
	Category    string `form:"category" json:"category"`
	Description string `form:"description" json:"description" binding:"omitempty,max=2000"`
	Location    string `form:"location" json:"location"`
	Date        string `form:"date" json:"date"`
	Status      string `form:"status" json:"status"`
}

type ItemListQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Type     string `form:"type"`
	Status   string `form:"status"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"pageSize,default=12" binding:"min=1,max=100"`
	Sort     string `form:"sort,default=newest" binding:"oneof=newest oldest date_desc date_asc"`
}

type ClaimItemRequest struct {
	Message string `json:"message" binding:"required"`
}

type ResolveClaimRequest struct {
	Status string `json:"status" binding:"required"`
}

var sortOrderings = map[string]string{
	"newest":    "created_at DESC",
	"oldest":    "created_at ASC",
	"date_desc": "date DESC",
	"date_asc":  "date ASC",
}

func NewItemController(db *gorm.DB, uploads *UploadController) *ItemController {
	return &ItemController{DB: db, Uploads: uploads}
}

func parseItemDate(value string) (time.Time, error) {
	if date, err := time.Parse("2006-01-02", value); err == nil {
		return date, nil
	}
	return time.Parse(time.RFC3339, value)
}

// CreateItem godoc
// @Summary Report a lost or found item
// @Tags items
// @Accept json,mpfd
// @Produce json
// @Success 201 {object} StandardResponse
// @Router /items [post]
func (ic *ItemController) CreateItem(c *gin.Context) {
	user := utils.GetUser(c)
	var req CreateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please provide all required fields"})
		return
	}

	if !models.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category"})
		return
	}
	if !models.ValidLocation(req.Location) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid location"})
		return
	}

	date, err := parseItemDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	item := models.Item{
		Title:       req.Title,
		Category:    req.Category,
		Type:        req.Type,
		Description: req.Description,
		Location:    req.Location,
		Date:        date,
		OwnerID:     user.UserID,
		Status:      models.ItemStatusActive,
	}

	// The image is only pushed to storage once all field validation has
	// passed, so a rejected create never strands an object.
	if file, err := c.FormFile("image"); err == nil && file != nil {
		imageURL, err := ic.Uploads.UploadItemImage(user.UserID, file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		item.Image = &imageURL
	}

	if err := ic.DB.Create(&item).Error; err != nil {
		if item.Image != nil {
			ic.Uploads.DeleteImage(*item.Image)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create item"})
		return
	}

	ic.DB.Preload("Owner").First(&item, item.ID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Item reported successfully", "item": item})
}

func (ic *ItemController) filteredItems(q ItemListQuery) *gorm.DB {
	query := ic.DB.Model(&models.Item{})

	if q.Search != "" {
		needle := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?",
			needle, needle, needle)
	}

	// "All" is the UI's no-filter sentinel, treated the same as absent.
	if q.Category != "" && q.Category != "All" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Type != "" && q.Type != "All" {
		query = query.Where("type = ?", q.Type)
	}
	if q.Status != "" && q.Status != "All" {
		query = query.Where("status = ?", q.Status)
	}

	return query
}

// GetItems godoc
// @Summary Browse and search listings
// @Description Keyword search over title/description/location plus exact-match filters, paginated
// @Tags items
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /items [get]
func (ic *ItemController) GetItems(c *gin.Context) {
	var q ItemListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var total int64
	if err := ic.filteredItems(q).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching items"})
		return
	}

	var items []models.Item
	result := ic.filteredItems(q).
		Preload("Owner").
		Order(sortOrderings[q.Sort]).
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&items)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"items":   items,
		"pagination": PaginationMeta{
			Total:    total,
			Page:     q.Page,
			Pages:    int(math.Ceil(float64(total) / float64(q.PageSize))),
			PageSize: q.PageSize,
		},
	})
}

// GetItemByID godoc
// @Summary Get a single item with its owner and claimants
// @Tags items
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /items/{id} [get]
func (ic *ItemController) GetItemByID(c *gin.Context) {
	var item models.Item
	err := ic.DB.
		Preload("Owner").
		Preload("ClaimRequests", func(db *gorm.DB) *gorm.DB {
			return db.Order("claim_requests.id ASC")
		}).
		Preload("ClaimRequests.Claimant").
		First(&item, "id = ?", c.Param("id")).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "item": item})
}

// UpdateItem godoc
// @Summary Update an item (owner only)
// @Tags items
// @Accept json,mpfd
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /items/{id} [put]
func (ic *ItemController) UpdateItem(c *gin.Context) {
	user := utils.GetUser(c)

	var item models.Item
	if err := ic.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Item not found"})
		return
	}

	if item.OwnerID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to update this item"})
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	updates := make(map[string]interface{})

	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Category != "" {
		if !models.ValidCategory(req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category"})
			return
		}
		updates["category"] = req.Category
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Location != "" {
		if !models.ValidLocation(req.Location) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid location"})
			return
		}
		updates["location"] = req.Location
	}
	if req.Date != "" {
		date, err := parseItemDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date format, expected YYYY-MM-DD"})
			return
		}
		updates["date"] = date
	}
	if req.Status != "" {
		if !models.ValidItemStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status"})
			return
		}
		updates["status"] = req.Status
	}

	oldImage := item.Image
	var stagedImage string
	if file, err := c.FormFile("image"); err == nil && file != nil {
		imageURL, err := ic.Uploads.UploadItemImage(user.UserID, file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		stagedImage = imageURL
		updates["image"] = imageURL
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No fields to update"})
		return
	}

	if err := ic.DB.Model(&item).Updates(updates).Error; err != nil {
		if stagedImage != "" {
			ic.Uploads.DeleteImage(stagedImage)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update item"})
		return
	}

	// The replaced object is released only after the update has committed.
	if stagedImage != "" && oldImage != nil {
		ic.Uploads.DeleteImage(*oldImage)
	}

	ic.DB.Preload("Owner").First(&item, item.ID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item updated successfully", "item": item})
}

// DeleteItem godoc
// @Summary Delete an item and its claim requests (owner only)
// @Tags items
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /items/{id} [delete]
func (ic *ItemController) DeleteItem(c *gin.Context) {
	user := utils.GetUser(c)

	var item models.Item
	if err := ic.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Item not found"})
		return
	}

	if item.OwnerID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to delete this item"})
		return
	}

	tx := ic.DB.Begin()

	// Claim requests live and die with their item.
	if err := tx.Where("item_id = ?", item.ID).Delete(&models.ClaimRequest{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete claim requests"})
		return
	}

	if err := tx.Delete(&item).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete item"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete item"})
		return
	}

	if item.Image != nil {
		ic.Uploads.DeleteImage(*item.Image)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item deleted successfully"})
}

// GetMyItems godoc
// @Summary List the caller's own reports, newest first
// @Tags items
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /items/mine [get]
func (ic *ItemController) GetMyItems(c *gin.Context) {
	user := utils.GetUser(c)

	var items []models.Item
	result := ic.DB.
		Preload("ClaimRequests", func(db *gorm.DB) *gorm.DB {
			return db.Order("claim_requests.id ASC")
		}).
		Preload("ClaimRequests.Claimant").
		Where("owner_id = ?", user.UserID).
		Order("created_at DESC").
		Find(&items)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}

// ClaimItem godoc
// @Summary Submit a claim request on someone else's item
// @Tags items
// @Accept json
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /items/{id}/claim [post]
func (ic *ItemController) ClaimItem(c *gin.Context) {
	user := utils.GetUser(c)

	var req ClaimItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Claim message is required"})
		return
	}

	var item models.Item
	err := ic.DB.Preload("ClaimRequests").First(&item, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching item"})
		return
	}

	if item.OwnerID == user.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You cannot claim your own item"})
		return
	}

	if item.HasClaimFrom(user.UserID) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You have already submitted a claim for this item"})
		return
	}

	claim := models.ClaimRequest{
		ItemID:     item.ID,
		ClaimantID: user.UserID,
		Message:    req.Message,
		Status:     models.ClaimStatusPending,
	}

	if err := ic.DB.Create(&claim).Error; err != nil {
		// Two concurrent submissions can both pass the check above; the
		// unique index on (item_id, claimant_id) catches the loser here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You have already submitted a claim for this item"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit claim"})
		return
	}

	ic.loadItemFull(&item, item.ID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Claim request submitted successfully", "item": item})
}

// UpdateClaimStatus godoc
// @Summary Approve or reject a pending claim request (owner only)
// @Description Approval also marks the item as claimed. Claims that were already resolved, and approvals on an item that is no longer active, are rejected.
// @Tags items
// @Accept json
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /items/{id}/claim/{claimId} [put]
func (ic *ItemController) UpdateClaimStatus(c *gin.Context) {
	user := utils.GetUser(c)

	claimID, err := strconv.ParseUint(c.Param("claimId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Claim not found"})
		return
	}

	var req ResolveClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidClaimDecision(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Status must be approved or rejected"})
		return
	}

	var item models.Item
	if err := ic.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Item not found"})
		return
	}

	if item.OwnerID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized"})
		return
	}

	tx := ic.DB.Begin()

	// Conditional update: only a pending claim may transition, so a decision
	// can never be overwritten by a racing retry.
	result := tx.Model(&models.ClaimRequest{}).
		Where("id = ? AND item_id = ? AND status = ?", claimID, item.ID, models.ClaimStatusPending).
		Update("status", req.Status)

	if result.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update claim"})
		return
	}

	if result.RowsAffected == 0 {
		var claim models.ClaimRequest
		err := tx.Where("id = ? AND item_id = ?", claimID, item.ID).First(&claim).Error
		tx.Rollback()
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Claim not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Claim has already been resolved"})
		return
	}

	if req.Status == models.ClaimStatusApproved {
		result := tx.Model(&models.Item{}).
			Where("id = ? AND status = ?", item.ID, models.ItemStatusActive).
			Update("status", models.ItemStatusClaimed)

		if result.Error != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update item status"})
			return
		}

		if result.RowsAffected == 0 {
			tx.Rollback()
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Item has already been claimed"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update claim"})
		return
	}

	ic.loadItemFull(&item, item.ID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Claim " + req.Status + " successfully", "item": item})
}

// GetDashboardStats godoc
// @Summary Per-caller and global item counts
// @Tags items
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /items/stats [get]
func (ic *ItemController) GetDashboardStats(c *gin.Context) {
	user := utils.GetUser(c)

	var totalReported, lostReported, foundReported, resolved int64
	var totalItems, activeItems int64

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&totalReported, ic.DB.Model(&models.Item{}).Where("owner_id = ?", user.UserID)},
		{&lostReported, ic.DB.Model(&models.Item{}).Where("owner_id = ? AND type = ?", user.UserID, models.ItemTypeLost)},
		{&foundReported, ic.DB.Model(&models.Item{}).Where("owner_id = ? AND type = ?", user.UserID, models.ItemTypeFound)},
		{&resolved, ic.DB.Model(&models.Item{}).Where("owner_id = ? AND status IN ?", user.UserID,
			[]string{models.ItemStatusClaimed, models.ItemStatusResolved})},
		{&totalItems, ic.DB.Model(&models.Item{})},
		{&activeItems, ic.DB.Model(&models.Item{}).Where("status = ?", models.ItemStatusActive)},
	}

	for _, count := range counts {
		if err := count.query.Count(count.dest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching stats"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"totalReported": totalReported,
			"lostReported":  lostReported,
			"foundReported": foundReported,
			"resolved":      resolved,
			"totalItems":    totalItems,
			"activeItems":   activeItems,
		},
	})
}

func (ic *ItemController) loadItemFull(item *models.Item, id uint) {
	ic.DB.
		Preload("Owner").
		Preload("ClaimRequests", func(db *gorm.DB) *gorm.DB {
			return db.Order("claim_requests.id ASC")
		}).
		Preload("ClaimRequests.Claimant").
		First(item, id)
}
