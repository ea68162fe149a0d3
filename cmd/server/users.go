package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"shareit/pkg/models"
)

type createUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequestf("invalid user payload: %v", err))
		return
	}

	// the unique index on email is the single authority on duplicates, so
	// concurrent registrations cannot slip past a pre-check
	user := models.User{Name: req.Name, Email: req.Email}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(c, conflictf("email %s is already registered", req.Email))
			return
		}
		writeError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/users/%d", user.ID))
	c.JSON(http.StatusCreated, toUserResponse(user))
}

func updateUser(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		writeError(c, err)
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequestf("invalid user payload: %v", err))
		return
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		writeError(c, notFoundf("user with id %d not found", userID))
		return
	}

	// updating to the user's own current email is a no-op success
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}

	if err := db.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(c, conflictf("email %s is already registered", user.Email))
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func getUsers(c *gin.Context) {
	page, size, err := pageWindow(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var users []models.User
	err = db.Order("id DESC").Offset(page * size).Limit(size).Find(&users).Error
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

func getUser(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		writeError(c, err)
		return
	}
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		writeError(c, notFoundf("user with id %d not found", userID))
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func deleteUser(c *gin.Context) {
	userID, err := pathID(c, "userId")
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
	if err := db.Delete(&models.User{}, userID).Error; err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
