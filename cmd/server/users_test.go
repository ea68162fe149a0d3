package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/pkg/models"
)

func TestCreateUser(t *testing.T) {
	router := setupTest(t)

	w := performRequest(router, http.MethodPost, "/users", 0,
		gin.H{"name": "Alice", "email": "alice@example.com"})

	require.Equal(t, http.StatusCreated, w.Code)
	user := decodeBody[userResponse](t, w)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, fmt.Sprintf("/users/%d", user.ID), w.Header().Get("Location"))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	router := setupTest(t)
	seedUser(t, "Alice", "alice@example.com")

	// the unique index raises the conflict at insert time, so the answer is
	// a 409 even when two registrations race past any earlier read
	w := performRequest(router, http.MethodPost, "/users", 0,
		gin.H{"name": "Impostor", "email": "alice@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "alice@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateUserMissingEmail(t *testing.T) {
	router := setupTest(t)

	w := performRequest(router, http.MethodPost, "/users", 0, gin.H{"name": "Alice"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	router := setupTest(t)
	seedUser(t, "Alice", "alice@example.com")
	bob := seedUser(t, "Bob", "bob@example.com")

	w := performRequest(router, http.MethodPatch, fmt.Sprintf("/users/%d", bob.ID), 0,
		gin.H{"email": "alice@example.com"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateUserOwnEmailIsNoop(t *testing.T) {
	router := setupTest(t)
	alice := seedUser(t, "Alice", "alice@example.com")

	w := performRequest(router, http.MethodPatch, fmt.Sprintf("/users/%d", alice.ID), 0,
		gin.H{"email": "alice@example.com"})

	require.Equal(t, http.StatusOK, w.Code)
	user := decodeBody[userResponse](t, w)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestUpdateUserNameOnly(t *testing.T) {
	router := setupTest(t)
	alice := seedUser(t, "Alice", "alice@example.com")

	w := performRequest(router, http.MethodPatch, fmt.Sprintf("/users/%d", alice.ID), 0,
		gin.H{"name": "Alice Cooper"})

	require.Equal(t, http.StatusOK, w.Code)
	user := decodeBody[userResponse](t, w)
	assert.Equal(t, "Alice Cooper", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestUpdateUserNotFound(t *testing.T) {
	router := setupTest(t)

	w := performRequest(router, http.MethodPatch, "/users/42", 0, gin.H{"name": "Nobody"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUserNotFound(t *testing.T) {
	router := setupTest(t)

	w := performRequest(router, http.MethodGet, "/users/42", 0, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUser(t *testing.T) {
	router := setupTest(t)
	alice := seedUser(t, "Alice", "alice@example.com")

	w := performRequest(router, http.MethodDelete, fmt.Sprintf("/users/%d", alice.ID), 0, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(router, http.MethodGet, fmt.Sprintf("/users/%d", alice.ID), 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUserNotFound(t *testing.T) {
	router := setupTest(t)

	w := performRequest(router, http.MethodDelete, "/users/42", 0, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUsersPaged(t *testing.T) {
	router := setupTest(t)
	seedUser(t, "Alice", "alice@example.com")
	seedUser(t, "Bob", "bob@example.com")
	carol := seedUser(t, "Carol", "carol@example.com")

	w := performRequest(router, http.MethodGet, "/users?from=0&size=2", 0, nil)

	require.Equal(t, http.StatusOK, w.Code)
	users := decodeBody[[]userResponse](t, w)
	require.Len(t, users, 2)
	// newest ids first
	assert.Equal(t, carol.ID, users[0].ID)

	w = performRequest(router, http.MethodGet, "/users?from=2&size=2", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users = decodeBody[[]userResponse](t, w)
	assert.Len(t, users, 1)
}
