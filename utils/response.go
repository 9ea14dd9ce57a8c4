// utils/response.go
package utils

import "github.com/gin-gonic/gin"

// Every endpoint answers with the same envelope:
// { success, data?, message?, error? }

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

func RespondWithData(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func RespondWithMessage(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, gin.H{"success": true, "data": data, "message": message})
}
