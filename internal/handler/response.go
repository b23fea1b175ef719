// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"abhishek-coaching-go/pkg/apperr"
	"abhishek-coaching-go/pkg/log"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// fieldError 是返回给前端的单个字段校验错误。
type fieldError struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{"code": status, "message": message, "data": data})
}

// respondError 把业务错误映射为 HTTP 状态码和统一响应体。
// 非 apperr 错误一律按服务器错误处理，不向外暴露细节。
func respondError(c *gin.Context, op string, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		log.Error(op+": unexpected error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "Server error"})
		return
	}

	status := apperr.HTTPStatus(appErr.Kind)
	if status >= http.StatusInternalServerError {
		log.Error(op+": "+appErr.Message, err)
	} else {
		log.Warnf("%s: %v", op, err)
	}

	body := gin.H{"code": status, "message": appErr.Message}
	if apperr.IsValidation(err) {
		body["errors"] = []fieldError{{Field: appErr.Field, Kind: string(appErr.Kind), Message: appErr.Message}}
	}
	c.JSON(status, body)
}

// respondBindError 处理请求体解析失败。字段类型不对时在 errors 中指出字段，
// 请求体超过上限时返回 413。
func respondBindError(c *gin.Context, op string, err error) {
	log.Warnf("%s: Invalid request payload, error: %v", op, err)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"code":    http.StatusRequestEntityTooLarge,
			"message": fmt.Sprintf("Request body exceeds the %d MB limit", tooLarge.Limit>>20),
		})
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		message := fmt.Sprintf("%s has the wrong type", typeErr.Field)
		if typeErr.Type != nil {
			message = fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.String())
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": message,
			"errors":  []fieldError{{Field: typeErr.Field, Kind: string(apperr.KindInvalidFormat), Message: message}},
		})
		return
	}

	respondBadRequest(c, "Invalid request body")
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": message})
}

// parseID 解析路径中的 :id，非法 id 视为记录不存在。
func parseID(c *gin.Context, notFoundMsg string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": notFoundMsg})
		return 0, false
	}
	return uint(id), true
}
