package middleware

import (
	"strconv"
	"time"
	"wastetoworth/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware HTTP 指标采集中间件
func MetricsMiddleware() gin.HandlerFunc {
	collector := metrics.GetGlobalCollector()

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// 使用路由模板而不是原始路径，避免 /order/:orderId 这类路由撑爆标签基数
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		collector.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
