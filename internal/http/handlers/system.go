package handlers

import (
	"net/http"

	intconfig "bookutu/internal/config"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DBCheck verifies the connection and reconnects if it was never
// established.
func (a API) DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(a.Env.DBDSN); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database ping failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK"})
}
