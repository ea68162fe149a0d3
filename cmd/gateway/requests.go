package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// maxRequestPageSize caps the size window on the all-requests listing.
const maxRequestPageSize = 100

type requestCreatePayload struct {
	Description string `json:"description" binding:"required"`
}

func createRequestHandler(c *gin.Context) {
	if !requireUserID(c) {
		return
	}
	var payload requestCreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}
	forward(c, http.MethodPost, "/requests", payload)
}

func getRequestsByRequestorHandler(c *gin.Context) {
	if !requireUserID(c) {
		return
	}
	forward(c, http.MethodGet, "/requests", nil)
}

func getAllRequestsHandler(c *gin.Context) {
	if !requireUserID(c) || !requirePageParams(c) {
		return
	}
	if raw := c.Query("size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > maxRequestPageSize {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "size must not exceed " + strconv.Itoa(maxRequestPageSize),
			})
			return
		}
	}
	forward(c, http.MethodGet, "/requests/all", nil)
}

func getRequestHandler(c *gin.Context) {
	if !requireUserID(c) || !requirePathID(c, "requestId") {
		return
	}
	forward(c, http.MethodGet, "/requests/"+c.Param("requestId"), nil)
}
