package security

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// 本服务对外只暴露 GET/POST/PUT 接口，预检响应按此收紧
const (
	corsAllowMethods = "GET, POST, PUT, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type, Accept, Origin, Cache-Control, X-Requested-With"
	corsMaxAge       = "7200"
)

// CORS 仅放行白名单中的 Origin，支持 Credentials。
// Origin 参与响应协商，必须带 Vary 头避免中间缓存串用。
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[strings.TrimSuffix(o, "/")] = true
	}

	return func(c *gin.Context) {
		c.Writer.Header().Add("Vary", "Origin")

		origin := c.Request.Header.Get("Origin")
		if origin != "" && originSet[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
			c.Writer.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			c.Writer.Header().Set("Access-Control-Max-Age", corsMaxAge)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Secure 基础安全响应头
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 防止MIME嗅探
		c.Header("X-Content-Type-Options", "nosniff")
		// 纯 API 服务，禁止被嵌入页面
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		// HSTS
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// client 单个来源 IP 的限流器与最后活跃时间
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按来源 IP 限流。答题提交是低频操作，
// 窗口配额直接作为突发上限；静默三个窗口后的条目被定期回收。
func RateLimiter(maxRequests int, window time.Duration) gin.HandlerFunc {
	clients := make(map[string]*client)
	var mu sync.Mutex

	expiry := window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	go func() {
		ticker := time.NewTicker(expiry)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			for ip, cl := range clients {
				if time.Since(cl.lastSeen) > expiry {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	refill := rate.Every(window / time.Duration(maxRequests))

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		cl, ok := clients[ip]
		if !ok {
			cl = &client{limiter: rate.NewLimiter(refill, maxRequests)}
			clients[ip] = cl
		}
		cl.lastSeen = time.Now()
		mu.Unlock()

		if !cl.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
