package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func ParamsToMap[T any](c *gin.Context) (T, error) {
	var params T

	if err := c.ShouldBindJSON(&params); err != nil {
		return params, err
	}

	return params, nil
}

// IDParam parses a positive integer path parameter.
func IDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)

	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}
