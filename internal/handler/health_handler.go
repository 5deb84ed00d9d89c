package handler

import (
	"github.com/gin-gonic/gin"

	"market-core/internal/handler/response"
)

// HealthCheck 健康检查接口
func HealthCheck(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
