// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"abhishek-coaching-go/internal/repository"
	"abhishek-coaching-go/pkg/log"
	"abhishek-coaching-go/pkg/token"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxClaimsKey = "claims"
	ctxTokenKey  = "token"
)

// BearerToken 从 Authorization 头中取出 token，格式不对时返回空字符串。
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	const bearerPrefix = "Bearer "
	if len(authHeader) > len(bearerPrefix) && strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(authHeader[len(bearerPrefix):])
	}
	return ""
}

// AuthMiddleware 创建一个 Gin 中间件，用于 JWT 认证。
// 校验签名和有效期，并拒绝已登出（在黑名单中）的 token。
func AuthMiddleware(jwtManager *token.JWTManager, blacklist repository.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "No token, authorization denied"})
			return
		}

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "Token is not valid"})
			return
		}

		revoked, err := blacklist.Contains(c.Request.Context(), tokenString)
		if err != nil {
			log.Error("查询 token 黑名单失败", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"code": http.StatusServiceUnavailable, "message": "Authorization service unavailable"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "Token has been revoked"})
			return
		}

		c.Set(ctxClaimsKey, claims)
		c.Set(ctxTokenKey, tokenString)
		c.Next()
	}
}

// Claims 返回 AuthMiddleware 写入上下文的 claims。
func Claims(c *gin.Context) (*token.CustomClaims, bool) {
	v, ok := c.Get(ctxClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.CustomClaims)
	return claims, ok
}

// Token 返回本次请求使用的原始 token。
func Token(c *gin.Context) string {
	return c.GetString(ctxTokenKey)
}
