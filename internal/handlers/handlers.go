package handlers

import (
	"net/http"

	"github.com/dglmedia/adops-backend/internal/apperrors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// httpStatus maps an application error code to an HTTP status.
func httpStatus(code apperrors.Code) int {
	switch code {
	case apperrors.CodeValidation:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeDuplicateAssignment, apperrors.CodeCapacityExceeded, apperrors.CodeInvalidState:
		return http.StatusConflict
	case apperrors.CodeUpstreamDependencyMissing:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error as JSON with its mapped status and stable code.
func respondError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	c.JSON(httpStatus(code), gin.H{"code": string(code), "error": err.Error()})
}

// parseObjectID parses a hex path parameter into an ObjectID, responding with
// 400 on failure.
func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": string(apperrors.CodeValidation), "error": "Invalid ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}
