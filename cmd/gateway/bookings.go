package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"shareit/pkg/models"
)

type bookingCreatePayload struct {
	ItemID uint       `json:"itemId" binding:"required"`
	Start  *time.Time `json:"start" binding:"required"`
	End    *time.Time `json:"end" binding:"required"`
}

func createBookingHandler(c *gin.Context) {
	if !requireUserID(c) {
		return
	}
	var payload bookingCreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}
	if !payload.Start.Before(*payload.End) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking start must be before its end"})
		return
	}
	forward(c, http.MethodPost, "/bookings", payload)
}

func approveBookingHandler(c *gin.Context) {
	if !requireUserID(c) || !requirePathID(c, "bookingId") {
		return
	}
	if approved := c.Query("approved"); approved != "true" && approved != "false" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved query parameter must be true or false"})
		return
	}
	forward(c, http.MethodPatch, "/bookings/"+c.Param("bookingId"), nil)
}

func getBookingHandler(c *gin.Context) {
	if !requireUserID(c) || !requirePathID(c, "bookingId") {
		return
	}
	forward(c, http.MethodGet, "/bookings/"+c.Param("bookingId"), nil)
}

func getBookingsByBookerHandler(c *gin.Context) {
	if !requireUserID(c) || !requireState(c) || !requirePageParams(c) {
		return
	}
	forward(c, http.MethodGet, "/bookings", nil)
}

func getBookingsByOwnerHandler(c *gin.Context) {
	if !requireUserID(c) || !requireState(c) || !requirePageParams(c) {
		return
	}
	forward(c, http.MethodGet, "/bookings/owner", nil)
}

// requireState rejects unknown state filter values before the network hop.
func requireState(c *gin.Context) bool {
	raw := c.Query("state")
	if _, err := models.ParseBookingState(strings.ToUpper(raw)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown booking state: " + raw})
		return false
	}
	return true
}
