package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"gameshop_v1_202608/pkg/apperr"
)

// ==================== 响应辅助 ====================

// respondOK 成功响应
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": data})
}

// respondList 分页列表响应
func respondList(c *gin.Context, data interface{}, total int64, page, pageSize int) {
	c.JSON(200, gin.H{
		"code":      0,
		"message":   "success",
		"data":      data,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// respondError 错误响应，按错误类型映射 HTTP 状态码
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	c.JSON(status, gin.H{"code": status, "message": err.Error()})
}

// pathID 解析路径中的数字 ID
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(400, gin.H{"code": 400, "message": "无效的 " + name})
		return 0, false
	}
	return id, true
}
