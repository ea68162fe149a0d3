package main

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/pkg/models"
)

func TestCreateRequest(t *testing.T) {
	router := setupTest(t)
	requestor := seedUser(t, "Requestor", "requestor@example.com")

	w := performRequest(router, http.MethodPost, "/requests", requestor.ID,
		gin.H{"description": "need a drill"})

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeBody[requestResponse](t, w)
	assert.Equal(t, "need a drill", resp.Description)
	assert.False(t, resp.Created.IsZero())
	assert.Empty(t, resp.Items)
	assert.Equal(t, fmt.Sprintf("/requests/%d", resp.ID), w.Header().Get("Location"))
}

func TestCreateRequestValidation(t *testing.T) {
	router := setupTest(t)
	requestor := seedUser(t, "Requestor", "requestor@example.com")

	w := performRequest(router, http.MethodPost, "/requests", requestor.ID, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, http.MethodPost, "/requests", 999,
		gin.H{"description": "need a drill"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRequestsByRequestor(t *testing.T) {
	router := setupTest(t)
	requestor := seedUser(t, "Requestor", "requestor@example.com")
	other := seedUser(t, "Other", "other@example.com")
	owner := seedUser(t, "Owner", "owner@example.com")

	now := time.Now()
	older := models.ItemRequest{Description: "need a drill", RequestorID: requestor.ID, Created: now.Add(-2 * time.Hour)}
	require.NoError(t, db.Create(&older).Error)
	newer := models.ItemRequest{Description: "need a saw", RequestorID: requestor.ID, Created: now.Add(-time.Hour)}
	require.NoError(t, db.Create(&newer).Error)
	foreign := models.ItemRequest{Description: "need a ladder", RequestorID: other.ID, Created: now}
	require.NoError(t, db.Create(&foreign).Error)

	answer := models.Item{
		Name:        "drill",
		Description: "cordless drill",
		Available:   true,
		OwnerID:     owner.ID,
		RequestID:   &older.ID,
	}
	require.NoError(t, db.Create(&answer).Error)

	w := performRequest(router, http.MethodGet, "/requests", requestor.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[[]requestResponse](t, w)

	// own requests only, newest first, each with the items offered for it
	require.Len(t, resp, 2)
	assert.Equal(t, newer.ID, resp[0].ID)
	assert.Empty(t, resp[0].Items)
	assert.Equal(t, older.ID, resp[1].ID)
	require.Len(t, resp[1].Items, 1)
	assert.Equal(t, answer.ID, resp[1].Items[0].ID)
}

func TestGetRequestsByRequestorUnknownUser(t *testing.T) {
	router := setupTest(t)

	w := performRequest(router, http.MethodGet, "/requests", 999, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAllRequestsPaged(t *testing.T) {
	router := setupTest(t)
	requestor := seedUser(t, "Requestor", "requestor@example.com")
	viewer := seedUser(t, "Viewer", "viewer@example.com")

	now := time.Now()
	var ids []uint
	for i := 0; i < 5; i++ {
		r := models.ItemRequest{
			Description: fmt.Sprintf("request %d", i),
			RequestorID: requestor.ID,
			Created:     now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&r).Error)
		ids = append(ids, r.ID)
	}

	w := performRequest(router, http.MethodGet, "/requests/all?from=0&size=2", viewer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeBody[pageResponse[requestResponse]](t, w)

	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 2, page.Size)
	require.Len(t, page.Content, 2)
	assert.Equal(t, ids[4], page.Content[0].ID)
	assert.Equal(t, ids[3], page.Content[1].ID)

	w = performRequest(router, http.MethodGet, "/requests/all?from=4&size=2", viewer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decodeBody[pageResponse[requestResponse]](t, w)
	require.Len(t, page.Content, 1)
	assert.Equal(t, ids[0], page.Content[0].ID)
}

func TestGetAllRequestsDefaults(t *testing.T) {
	router := setupTest(t)
	viewer := seedUser(t, "Viewer", "viewer@example.com")

	w := performRequest(router, http.MethodGet, "/requests/all", viewer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeBody[pageResponse[requestResponse]](t, w)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(0), page.TotalElements)
}

func TestGetAllRequestsBadWindow(t *testing.T) {
	router := setupTest(t)
	viewer := seedUser(t, "Viewer", "viewer@example.com")

	for _, query := range []string{"from=-1&size=2", "from=0&size=0", "from=0&size=-3"} {
		w := performRequest(router, http.MethodGet, "/requests/all?"+query, viewer.ID, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestGetRequestByID(t *testing.T) {
	router := setupTest(t)
	requestor := seedUser(t, "Requestor", "requestor@example.com")
	viewer := seedUser(t, "Viewer", "viewer@example.com")
	request := seedRequest(t, requestor.ID, "need a drill")

	w := performRequest(router, http.MethodGet, fmt.Sprintf("/requests/%d", request.ID), viewer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[requestResponse](t, w)
	assert.Equal(t, request.ID, resp.ID)
	assert.Equal(t, "need a drill", resp.Description)

	w = performRequest(router, http.MethodGet, "/requests/999", viewer.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
