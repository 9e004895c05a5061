package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/boltpath-api/internal/middleware"
	"github.com/noah-isme/boltpath-api/internal/models"
	appErrors "github.com/noah-isme/boltpath-api/pkg/errors"
	"github.com/noah-isme/boltpath-api/pkg/response"
)

// currentTeacher resolves the signed-in teacher or writes a 401.
func currentTeacher(c *gin.Context) (models.Teacher, bool) {
	teacher, ok := middleware.CurrentTeacher(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Teacher{}, false
	}
	return teacher, true
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}
