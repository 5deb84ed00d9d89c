package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"market-core/pkg/errno"
	"market-core/pkg/monitor"
)

// Response defines the standard JSON structure
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"msg"`
	Data    interface{} `json:"data"`
}

// Success returns a success response with data
func Success(c *gin.Context, data interface{}) {
	if data == nil {
		data = gin.H{} // Return empty object instead of null
	}
	c.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Error returns an error response
func Error(c *gin.Context, err error) {
	code, msg := errno.Decode(err)
	if monitor.Business != nil && code >= 20000 {
		monitor.Business.RejectedOperationsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: msg,
		Data:    gin.H{},
	})
}
