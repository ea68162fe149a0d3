package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type itemCreatePayload struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *uint  `json:"requestId,omitempty"`
}

type itemUpdatePayload struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

type commentCreatePayload struct {
	Text string `json:"text" binding:"required"`
}

func createItemHandler(c *gin.Context) {
	if !requireUserID(c) {
		return
	}
	var payload itemCreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}
	forward(c, http.MethodPost, "/items", payload)
}

func updateItemHandler(c *gin.Context) {
	if !requireUserID(c) || !requirePathID(c, "itemId") {
		return
	}
	var payload itemUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}
	if payload.Name == nil && payload.Description == nil && payload.Available == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one of name, description or available must be set"})
		return
	}
	forward(c, http.MethodPatch, "/items/"+c.Param("itemId"), payload)
}

func getItemHandler(c *gin.Context) {
	if !requireUserID(c) || !requirePathID(c, "itemId") {
		return
	}
	forward(c, http.MethodGet, "/items/"+c.Param("itemId"), nil)
}

func getItemsByOwnerHandler(c *gin.Context) {
	if !requireUserID(c) {
		return
	}
	forward(c, http.MethodGet, "/items", nil)
}

func searchItemsHandler(c *gin.Context) {
	if !requireUserID(c) {
		return
	}
	forward(c, http.MethodGet, "/items/search", nil)
}

func createCommentHandler(c *gin.Context) {
	if !requireUserID(c) || !requirePathID(c, "itemId") {
		return
	}
	var payload commentCreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}
	forward(c, http.MethodPost, "/items/"+c.Param("itemId")+"/comment", payload)
}
