package controllers

import (
	stderrors "errors"
	"io"

	"github.com/gin-gonic/gin"

	"occupancy/errors"
)

// bindOptionalJSON binds the body into dst, treating an empty body as {}.
func bindOptionalJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "request body is not valid JSON", err)
	}
	return nil
}
