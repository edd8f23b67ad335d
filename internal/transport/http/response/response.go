package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kairowan/users-api/internal/service"
)

type errorBody struct {
	Error string `json:"error"`
}

// Error 统一错误出口：真实状态码 + {"error": msg}
func Error(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorBody{Error: msg})
}

// FromError 把业务错误映射到状态码；未识别的一律 500
func FromError(c *gin.Context, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case service.KindNotFound:
			Error(c, http.StatusNotFound, se.Msg)
		case service.KindForbidden:
			Error(c, http.StatusForbidden, se.Msg)
		case service.KindConflict:
			// 重复用户名/邮箱对外是 400
			Error(c, http.StatusBadRequest, se.Msg)
		default:
			Error(c, http.StatusInternalServerError, se.Msg)
		}
		return
	}
	Error(c, http.StatusInternalServerError, err.Error())
}
