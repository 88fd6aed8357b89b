package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractUintParam валидирует числовой параметр маршрута и кладет его в
// контекст под заданным ключом уже приведенным к uint. Обработчики дальше
// по цепочке читают значение через c.MustGet без повторного разбора строки.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":      fmt.Sprintf("Invalid %s", paramName),
				"error_type": "invalid_param",
			})
			return
		}
		c.Set(contextKey, uint(value))
		c.Next()
	}
}
