package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"shareit/pkg/circuitbreaker"
)

// forward sends the validated request to the server and streams the server's
// status and body back unchanged. Transport failures feed the circuit
// breaker; HTTP error statuses are the server's answer and pass through.
func forward(c *gin.Context, method, path string, payload any) {
	url := serverURL + path
	if q := c.Request.URL.RawQuery; q != "" {
		url += "?" + q
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode request body"})
			return
		}
		body = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(c.Request.Context(), method, url, body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
		return
	}
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if userID := c.GetHeader(userIDHeader); userID != "" {
		request.Header.Set(userIDHeader, userID)
	}
	if requestID := c.Writer.Header().Get("X-Request-Id"); requestID != "" {
		request.Header.Set("X-Request-Id", requestID)
	}

	var response *http.Response
	err = breaker.Execute(func() error {
		var doErr error
		response, doErr = httpClient.Do(request)
		return doErr
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server is temporarily unavailable"})
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("url", url).Msg("forwarding failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reach server"})
		return
	}
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read server response"})
		return
	}
	if location := response.Header.Get("Location"); location != "" {
		c.Header("Location", location)
	}
	c.Data(response.StatusCode, "application/json", data)
}
