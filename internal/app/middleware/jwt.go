package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hudaazehraa/neighborly/internal/domain/services"
	"github.com/hudaazehraa/neighborly/internal/error/response"
	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
)

// SessionCookieName 浏览器端会话Cookie的名称，值就是访问令牌
const SessionCookieName = "neighborly_session"

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB) {
	jwtService = services.NewJWTService(cfg, db)
}

// extractToken 从请求中提取访问令牌。
// 优先读Authorization头（API客户端），其次读会话Cookie（浏览器）。
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err == nil && cookie != "" {
		return cookie
	}
	return ""
}

// wantsHTML 判断请求是否期望HTML页面。
// XHR请求和API客户端返回JSON，浏览器导航返回重定向。
func wantsHTML(c *gin.Context) bool {
	if strings.EqualFold(c.GetHeader("x-requested-with"), "XMLHttpRequest") {
		return false
	}
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

// resolveClaims 解析请求携带的访问令牌
func resolveClaims(c *gin.Context) (*services.JWTClaims, bool) {
	tokenString := extractToken(c)
	if tokenString == "" {
		return nil, false
	}

	claims, err := jwtService.ExtractClaims(tokenString)
	if err != nil {
		return nil, false
	}

	// 刷新令牌不能当访问令牌用
	if claims.TokenType != services.TokenTypeAccess {
		return nil, false
	}
	return claims, true
}

// AuthenticateUser 要求登录。
// 页面请求未登录时重定向到注册页，接口请求返回401。
func AuthenticateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := resolveClaims(c)
		if !ok {
			if wantsHTML(c) {
				c.Redirect(http.StatusFound, "/signup/")
				c.Abort()
				return
			}
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("claims", claims)
		c.Next()
	}
}

// AuthenticateAdmin 要求管理员身份
func AuthenticateAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := resolveClaims(c)
		if !ok {
			if wantsHTML(c) {
				c.Redirect(http.StatusFound, "/login/")
				c.Abort()
				return
			}
			response.Unauthorized(c)
			c.Abort()
			return
		}

		if claims.Role != "admin" {
			if wantsHTML(c) {
				c.Redirect(http.StatusFound, "/")
				c.Abort()
				return
			}
			response.Forbidden(c)
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("claims", claims)
		c.Next()
	}
}
