package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"shareit/pkg/models"
)

type createItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *uint  `json:"requestId"`
}

type updateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type createCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func createItem(c *gin.Context) {
	ownerID, err := actingUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequestf("invalid item payload: %v", err))
		return
	}

	exists, err := userExists(ownerID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !exists {
		writeError(c, notFoundf("user with id %d not found", ownerID))
		return
	}

	item := models.Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		OwnerID:     ownerID,
	}
	// a dangling requestId is dropped rather than rejected
	if req.RequestID != nil {
		var request models.ItemRequest
		if err := db.First(&request, *req.RequestID).Error; err == nil {
			item.RequestID = &request.ID
		}
	}

	if err := db.Create(&item).Error; err != nil {
		writeError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/items/%d", item.ID))
	c.JSON(http.StatusCreated, toItemResponse(item))
}

func updateItem(c *gin.Context) {
	userID, err := actingUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		writeError(c, err)
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequestf("invalid item payload: %v", err))
		return
	}
	if req.Name == nil && req.Description == nil && req.Available == nil {
		writeError(c, badRequestf("at least one of name, description or available must be set"))
		return
	}

	exists, err := userExists(userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !exists {
		writeError(c, notFoundf("user with id %d not found", userID))
		return
	}

	var item models.Item
	if err := db.First(&item, itemID).Error; err != nil {
		writeError(c, notFoundf("item with id %d not found", itemID))
		return
	}
	if item.OwnerID != userID {
		writeError(c, forbiddenf("only the owner may update an item"))
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := db.Save(&item).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

// getItem composes item details. Comments are visible to every viewer; the
// last/next booking summary only to the owner. Selection here is by raw start
// time over any status, which differs from the owner item list on purpose.
func getItem(c *gin.Context) {
	viewerID, err := actingUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		writeError(c, err)
		return
	}

	exists, err := userExists(viewerID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !exists {
		writeError(c, notFoundf("user with id %d not found", viewerID))
		return
	}

	var item models.Item
	if err := db.First(&item, itemID).Error; err != nil {
		writeError(c, notFoundf("item with id %d not found", itemID))
		return
	}

	comments, err := commentsForItem(item.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := itemDetailsResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		Comments:    comments,
	}

	if viewerID == item.OwnerID {
		now := time.Now()
		var bookings []models.Booking
		if err := db.Where("item_id = ?", item.ID).Find(&bookings).Error; err != nil {
			writeError(c, err)
			return
		}
		resp.LastBooking, resp.NextBooking = lastAndNextByStart(bookings, now)
	}

	c.JSON(http.StatusOK, resp)
}

func getItemsByOwner(c *gin.Context) {
	ownerID, err := actingUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	exists, err := userExists(ownerID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !exists {
		writeError(c, notFoundf("user with id %d not found", ownerID))
		return
	}

	var items []models.Item
	if err := db.Where("owner_id = ?", ownerID).Order("id").Find(&items).Error; err != nil {
		writeError(c, err)
		return
	}

	itemIDs := make([]uint, 0, len(items))
	for _, i := range items {
		itemIDs = append(itemIDs, i.ID)
	}
	bookingsByItem := map[uint][]models.Booking{}
	if len(itemIDs) > 0 {
		var bookings []models.Booking
		if err := db.Where("item_id IN ?", itemIDs).Find(&bookings).Error; err != nil {
			writeError(c, err)
			return
		}
		for _, b := range bookings {
			bookingsByItem[b.ItemID] = append(bookingsByItem[b.ItemID], b)
		}
	}

	now := time.Now()
	out := make([]itemShortResponse, 0, len(items))
	for _, item := range items {
		short := itemShortResponse{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
		}
		short.LastBooking, short.NextBooking = lastAndNextApproved(bookingsByItem[item.ID], now)
		out = append(out, short)
	}
	c.JSON(http.StatusOK, out)
}

func searchItems(c *gin.Context) {
	userID, err := actingUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	exists, err := userExists(userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !exists {
		writeError(c, notFoundf("user with id %d not found", userID))
		return
	}

	text := strings.TrimSpace(c.Query("text"))
	if text == "" {
		c.JSON(http.StatusOK, []itemResponse{})
		return
	}

	pattern := "%" + strings.ToLower(text) + "%"
	var items []models.Item
	err = db.Where("available = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Find(&items).Error
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toItemResponse(i))
	}
	c.JSON(http.StatusOK, out)
}

// createComment lets a booker review an item, but only after an APPROVED
// booking of theirs has ended, and never on their own item.
func createComment(c *gin.Context) {
	authorID, err := actingUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		writeError(c, err)
		return
	}
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequestf("invalid comment payload: %v", err))
		return
	}

	var author models.User
	if err := db.First(&author, authorID).Error; err != nil {
		writeError(c, notFoundf("user with id %d not found", authorID))
		return
	}
	var item models.Item
	if err := db.First(&item, itemID).Error; err != nil {
		writeError(c, notFoundf("item with id %d not found", itemID))
		return
	}
	if item.OwnerID == authorID {
		writeError(c, forbiddenf("the owner may not comment on their own item"))
		return
	}

	now := time.Now()
	var completed int64
	err = db.Model(&models.Booking{}).
		Where("booker_id = ? AND item_id = ? AND status = ? AND end_time < ?",
			authorID, item.ID, models.StatusApproved, now).
		Count(&completed).Error
	if err != nil {
		writeError(c, err)
		return
	}
	if completed == 0 {
		writeError(c, badRequestf("user %d has no completed booking of item %d", authorID, item.ID))
		return
	}

	comment := models.Comment{
		Text:     req.Text,
		ItemID:   item.ID,
		AuthorID: authorID,
		Created:  now,
	}
	if err := db.Create(&comment).Error; err != nil {
		writeError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/items/%d/comment/%d", item.ID, comment.ID))
	c.JSON(http.StatusCreated, commentResponse{
		ID:         comment.ID,
		Text:       comment.Text,
		AuthorName: author.Name,
		Created:    comment.Created,
	})
}

func commentsForItem(itemID uint) ([]commentResponse, error) {
	var comments []models.Comment
	if err := db.Where("item_id = ?", itemID).Order("created").Find(&comments).Error; err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return []commentResponse{}, nil
	}

	authorIDs := make([]uint, 0, len(comments))
	for _, cm := range comments {
		authorIDs = append(authorIDs, cm.AuthorID)
	}
	var authors []models.User
	if err := db.Where("id IN ?", authorIDs).Find(&authors).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(authors))
	for _, a := range authors {
		names[a.ID] = a.Name
	}

	out := make([]commentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, commentResponse{
			ID:         cm.ID,
			Text:       cm.Text,
			AuthorName: names[cm.AuthorID],
			Created:    cm.Created,
		})
	}
	return out, nil
}

// lastAndNextByStart picks, by raw start time over any status, the most
// recently started booking and the next one to start.
func lastAndNextByStart(bookings []models.Booking, now time.Time) (last, next *bookingInfo) {
	var lastB, nextB *models.Booking
	for i := range bookings {
		b := &bookings[i]
		switch {
		case b.StartTime.Before(now):
			if lastB == nil || b.StartTime.After(lastB.StartTime) {
				lastB = b
			}
		case b.StartTime.After(now):
			if nextB == nil || b.StartTime.Before(nextB.StartTime) {
				nextB = b
			}
		}
	}
	return toBookingInfo(lastB), toBookingInfo(nextB)
}

// lastAndNextApproved is the owner-item-list variant: APPROVED bookings only,
// with "last" selected by end time. Intentionally not the same selection as
// lastAndNextByStart.
func lastAndNextApproved(bookings []models.Booking, now time.Time) (last, next *bookingInfo) {
	var lastB, nextB *models.Booking
	for i := range bookings {
		b := &bookings[i]
		if b.Status != models.StatusApproved {
			continue
		}
		if b.EndTime.Before(now) {
			if lastB == nil || b.EndTime.After(lastB.EndTime) {
				lastB = b
			}
		}
		if b.StartTime.After(now) {
			if nextB == nil || b.StartTime.Before(nextB.StartTime) {
				nextB = b
			}
		}
	}
	return toBookingInfo(lastB), toBookingInfo(nextB)
}

func toBookingInfo(b *models.Booking) *bookingInfo {
	if b == nil {
		return nil
	}
	return &bookingInfo{ID: b.ID, BookerID: b.BookerID}
}
