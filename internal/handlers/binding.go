package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// paramUint parses a path parameter as uint, writing the 400 response on
// failure
func paramUint(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(value), true
}
