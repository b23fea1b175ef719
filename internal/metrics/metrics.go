// Package metrics 注册 Prometheus 指标并提供记录函数。
package metrics

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// Database metrics
	dbConnectionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_open",
		Help: "Number of open database connections",
	})

	dbConnectionsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_idle",
		Help: "Number of idle database connections",
	})

	// Business metrics
	admissionSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admission_submissions_total",
			Help: "Total number of admission enquiries by outcome",
		},
		[]string{"result"}, // accepted, or the validation error kind
	)

	admissionStatusUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admission_status_updates_total",
			Help: "Total number of admission status updates by new status",
		},
		[]string{"status"},
	)

	chatMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total number of chat messages by matched keyword",
		},
		[]string{"keyword"}, // "default" when nothing matched
	)

	chatSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_sessions_active",
		Help: "Number of open chat sessions",
	})

	adminLoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_logins_total",
			Help: "Total number of admin login attempts",
		},
		[]string{"status"}, // success, failure
	)
)

// GinMiddleware 记录每个请求的次数和耗时，endpoint 使用路由模板避免标签爆炸。
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint, status).Observe(time.Since(start).Seconds())
	}
}

// RecordAdmissionSubmission 记录一次咨询提交，result 为 accepted 或校验错误类别。
func RecordAdmissionSubmission(result string) {
	admissionSubmissionsTotal.WithLabelValues(result).Inc()
}

// RecordStatusUpdate 记录一次状态更新。
func RecordStatusUpdate(status string) {
	admissionStatusUpdatesTotal.WithLabelValues(status).Inc()
}

// RecordChatMessage 记录一条聊天消息命中的关键词。
func RecordChatMessage(keyword string) {
	if keyword == "" {
		keyword = "default"
	}
	chatMessagesTotal.WithLabelValues(keyword).Inc()
}

// ChatSessionOpened 和 ChatSessionClosed 维护在线会话数。
func ChatSessionOpened() { chatSessionsActive.Inc() }

func ChatSessionClosed() { chatSessionsActive.Dec() }

// RecordAdminLogin records an admin login attempt
func RecordAdminLogin(success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	adminLoginsTotal.WithLabelValues(status).Inc()
}

// CollectDBStats 定期采集连接池状态，直到 ctx 结束。
func CollectDBStats(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := db.Stats()
			dbConnectionsOpen.Set(float64(stats.OpenConnections))
			dbConnectionsIdle.Set(float64(stats.Idle))
		}
	}
}
