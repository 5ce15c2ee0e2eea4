package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slotbook/utils"
)

// HealthHandler returns the latest health snapshot of mongo and redis.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
