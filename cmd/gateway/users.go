package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type userCreatePayload struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type userUpdatePayload struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
}

func createUserHandler(c *gin.Context) {
	var payload userCreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}
	forward(c, http.MethodPost, "/users", payload)
}

func updateUserHandler(c *gin.Context) {
	if !requirePathID(c, "userId") {
		return
	}
	var payload userUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}
	if payload.Name == nil && payload.Email == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one of name or email must be set"})
		return
	}
	forward(c, http.MethodPatch, "/users/"+c.Param("userId"), payload)
}

func getUsersHandler(c *gin.Context) {
	if !requirePageParams(c) {
		return
	}
	forward(c, http.MethodGet, "/users", nil)
}

func getUserHandler(c *gin.Context) {
	if !requirePathID(c, "userId") {
		return
	}
	forward(c, http.MethodGet, "/users/"+c.Param("userId"), nil)
}

func deleteUserHandler(c *gin.Context) {
	if !requirePathID(c, "userId") {
		return
	}
	forward(c, http.MethodDelete, "/users/"+c.Param("userId"), nil)
}
