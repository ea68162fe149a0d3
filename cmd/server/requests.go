package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shareit/pkg/models"
)

type createItemRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

func createRequest(c *gin.Context) {
	userID, err := actingUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req createItemRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequestf("invalid request payload: %v", err))
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

	request := models.ItemRequest{
		Description: req.Description,
		RequestorID: userID,
		Created:     time.Now(),
	}
	if err := db.Create(&request).Error; err != nil {
		writeError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/requests/%d", request.ID))
	c.JSON(http.StatusCreated, toRequestResponse(request, nil))
}

func getRequestsByRequestor(c *gin.Context) {
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

	var requests []models.ItemRequest
	err = db.Where("requestor_id = ?", userID).Order("created DESC").Find(&requests).Error
	if err != nil {
		writeError(c, err)
		return
	}

	out, err := withAnsweredItems(requests)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func getAllRequests(c *gin.Context) {
	page, size, err := pageWindow(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var total int64
	if err := db.Model(&models.ItemRequest{}).Count(&total).Error; err != nil {
		writeError(c, err)
		return
	}

	var requests []models.ItemRequest
	err = db.Order("created DESC").Offset(page * size).Limit(size).Find(&requests).Error
	if err != nil {
		writeError(c, err)
		return
	}

	content, err := withAnsweredItems(requests)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(content, page, size, total))
}

func getRequest(c *gin.Context) {
	requestID, err := pathID(c, "requestId")
	if err != nil {
		writeError(c, err)
		return
	}

	var request models.ItemRequest
	if err := db.First(&request, requestID).Error; err != nil {
		writeError(c, notFoundf("request with id %d not found", requestID))
		return
	}

	out, err := withAnsweredItems([]models.ItemRequest{request})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out[0])
}

// withAnsweredItems attaches the items created in response to each request,
// resolved in one batched query.
func withAnsweredItems(requests []models.ItemRequest) ([]requestResponse, error) {
	if len(requests) == 0 {
		return []requestResponse{}, nil
	}

	ids := make([]uint, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}
	var items []models.Item
	if err := db.Where("request_id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}

	out := make([]requestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, toRequestResponse(r, items))
	}
	return out, nil
}
