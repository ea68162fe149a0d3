package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"shareit/pkg/models"
)

type createBookingRequest struct {
	ItemID uint       `json:"itemId" binding:"required"`
	Start  *time.Time `json:"start" binding:"required"`
	End    *time.Time `json:"end" binding:"required"`
}

func createBooking(c *gin.Context) {
	userID, err := actingUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequestf("invalid booking payload: %v", err))
		return
	}
	if !req.Start.Before(*req.End) {
		writeError(c, badRequestf("booking start must be before its end"))
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
	if err := db.First(&item, req.ItemID).Error; err != nil {
		writeError(c, notFoundf("item with id %d not found", req.ItemID))
		return
	}
	if !item.Available {
		writeError(c, badRequestf("item with id %d is not available for booking", item.ID))
		return
	}

	booking := models.Booking{
		StartTime: *req.Start,
		EndTime:   *req.End,
		ItemID:    item.ID,
		BookerID:  userID,
		Status:    models.StatusWaiting,
	}
	if err := db.Create(&booking).Error; err != nil {
		writeError(c, err)
		return
	}

	resp, err := toBookingResponse(booking)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/bookings/%d", booking.ID))
	c.JSON(http.StatusCreated, resp)
}

// approveBooking finalizes a WAITING booking. Only the owner of the booked
// item may do it, and only once: APPROVED and REJECTED are terminal.
func approveBooking(c *gin.Context) {
	userID, err := actingUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	bookingID, err := pathID(c, "bookingId")
	if err != nil {
		writeError(c, err)
		return
	}
	approved := c.Query("approved")
	if approved != "true" && approved != "false" {
		writeError(c, badRequestf("approved query parameter must be true or false"))
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

	var booking models.Booking
	if err := db.First(&booking, bookingID).Error; err != nil {
		writeError(c, notFoundf("booking with id %d not found", bookingID))
		return
	}
	var item models.Item
	if err := db.First(&item, booking.ItemID).Error; err != nil {
		writeError(c, err)
		return
	}
	if item.OwnerID != userID {
		writeError(c, forbiddenf("only the item owner may approve or reject a booking"))
		return
	}
	if booking.Status != models.StatusWaiting {
		writeError(c, conflictf("booking %d is already finalized as %s", booking.ID, booking.Status))
		return
	}

	if approved == "true" {
		booking.Status = models.StatusApproved
	} else {
		booking.Status = models.StatusRejected
	}
	if err := db.Save(&booking).Error; err != nil {
		writeError(c, err)
		return
	}

	resp, err := toBookingResponse(booking)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func getBooking(c *gin.Context) {
	userID, err := actingUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	bookingID, err := pathID(c, "bookingId")
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

	var booking models.Booking
	if err := db.First(&booking, bookingID).Error; err != nil {
		writeError(c, notFoundf("booking with id %d not found", bookingID))
		return
	}
	var item models.Item
	if err := db.First(&item, booking.ItemID).Error; err != nil {
		writeError(c, err)
		return
	}
	if userID != booking.BookerID && userID != item.OwnerID {
		writeError(c, forbiddenf("booking details are visible only to the booker or the item owner"))
		return
	}

	resp, err := toBookingResponse(booking)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func getBookingsByBooker(c *gin.Context) {
	userID, err := actingUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	state, err := parseStateParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	page, size, err := pageWindow(c)
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

	now := time.Now()
	q := db.Model(&models.Booking{}).Where("bookings.booker_id = ?", userID)
	q = bookingStateScope(q, state, now)

	var bookings []models.Booking
	err = q.Order("bookings.start_time DESC").Offset(page * size).Limit(size).Find(&bookings).Error
	if err != nil {
		writeError(c, err)
		return
	}

	resp, err := toBookingResponses(bookings)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func getBookingsByOwner(c *gin.Context) {
	userID, err := actingUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	state, err := parseStateParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	page, size, err := pageWindow(c)
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

	var owned int64
	if err := db.Model(&models.Item{}).Where("owner_id = ?", userID).Count(&owned).Error; err != nil {
		writeError(c, err)
		return
	}
	if owned == 0 {
		writeError(c, notFoundf("user with id %d owns no items", userID))
		return
	}

	now := time.Now()
	q := db.Model(&models.Booking{}).
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", userID)
	q = bookingStateScope(q, state, now)

	var bookings []models.Booking
	err = q.Order("bookings.start_time DESC").Offset(page * size).Limit(size).Find(&bookings).Error
	if err != nil {
		writeError(c, err)
		return
	}

	resp, err := toBookingResponses(bookings)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// parseStateParam turns the free-form state query value into the closed
// BookingState set. An unrecognized value is a 404 at this boundary; past it
// the core only ever sees the enum.
func parseStateParam(c *gin.Context) (models.BookingState, error) {
	raw := strings.ToUpper(c.Query("state"))
	state, err := models.ParseBookingState(raw)
	if err != nil {
		return "", notFoundf("unknown booking state: %s", c.Query("state"))
	}
	return state, nil
}

// bookingStateScope narrows a booking query to one temporal or status
// partition. now is sampled once per request so CURRENT, PAST and FUTURE stay
// disjoint within a single response.
func bookingStateScope(q *gorm.DB, state models.BookingState, now time.Time) *gorm.DB {
	switch state {
	case models.StateAll:
		return q
	case models.StateCurrent:
		return q.Where("bookings.start_time <= ? AND bookings.end_time >= ?", now, now)
	case models.StatePast:
		return q.Where("bookings.end_time < ?", now)
	case models.StateFuture:
		return q.Where("bookings.start_time > ?", now)
	case models.StateWaiting:
		return q.Where("bookings.status = ?", models.StatusWaiting)
	case models.StateRejected:
		return q.Where("bookings.status = ?", models.StatusRejected)
	}
	return q
}
