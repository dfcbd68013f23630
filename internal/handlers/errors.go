package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kovin-ide/kovin/internal/apperr"
)

// StatusFor maps an error to its HTTP status
func StatusFor(err error) int {
	switch apperr.CodeOf(err) {
	case apperr.CodeNotAuthenticated:
		return http.StatusUnauthorized
	case apperr.CodeMissingArtifact, apperr.CodeSuperseded, apperr.CodeAlreadyExists:
		return http.StatusConflict
	case apperr.CodeNetworkOrServer, apperr.CodeMalformedResponse:
		return http.StatusBadGateway
	case apperr.CodePrecondition:
		return http.StatusPreconditionFailed
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeInvalidArgument:
		return http.StatusBadRequest
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func errorBody(err error) gin.H {
	body := gin.H{"error": err.Error()}
	if code := apperr.CodeOf(err); code != "" {
		body["code"] = code
	}
	return body
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(StatusFor(err), errorBody(err))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": apperr.CodeInvalidArgument})
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found", "code": apperr.CodeNotFound})
}
