package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hudaazehraa/neighborly/internal/app/middleware"
	"github.com/hudaazehraa/neighborly/internal/domain/services"
	"github.com/hudaazehraa/neighborly/internal/domain/services/container"
	"github.com/hudaazehraa/neighborly/internal/error/code"
	"github.com/hudaazehraa/neighborly/internal/error/response"
	"github.com/hudaazehraa/neighborly/pkg/logger"
)

// oauthStateCookie OAuth状态参数的临时Cookie
const oauthStateCookie = "oauth_state"

// InterfaceAuthController 定义认证控制器接口
type InterfaceAuthController interface {
	ShowLogin()
	Login()
	ShowSignup()
	Signup()
	Logout()
	APILogin()
	APISignup()
	GoogleLogin()
	GoogleCallback()
	ShowForgotPassword()
	ForgotPassword()
	ShowResetPassword()
	ResetPassword()
}

// AuthController 处理登录注册相关的请求
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController 创建一个新的认证控制器
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 表示API登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"jane"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// SignupRequest 表示API注册请求
type SignupRequest struct {
	Username        string `json:"username" binding:"required" example:"jane"`
	Password        string `json:"password" binding:"required" example:"secret123"`
	Email           string `json:"email" binding:"required,email" example:"jane@example.com"`
	FirstName       string `json:"first_name" example:"Jane"`
	LastName        string `json:"last_name" example:"Doe"`
	ApartmentNumber string `json:"apartment_number" example:"B-204"`
}

// setSession 把访问令牌写入会话Cookie
func (c *AuthController) setSession(token string) {
	c.Ctx.SetCookie(middleware.SessionCookieName, token, 24*60*60, "/", "", false, true)
}

// clearSession 清除会话Cookie
func (c *AuthController) clearSession() {
	c.Ctx.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
}

// issueTokens 为账号签发访问令牌和刷新令牌
func (c *AuthController) issueTokens(userID uint, role string) (string, string, error) {
	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	access, err := jwtService.GenerateToken(userID, role)
	if err != nil {
		return "", "", err
	}
	refresh, err := jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// homeFor 返回角色对应的登录后首页
func homeFor(role string) string {
	if role == "admin" {
		return "/admin-dashboard/users/"
	}
	return "/resident/dashboard/"
}

// ShowLogin 渲染登录页面
// @Summary      登录页面
// @Tags         Auth
// @Produce      html
// @Success      200  {string}  string
// @Router       /login/ [get]
func (c *AuthController) ShowLogin() {
	socialAuthService := c.Container.GetService("social_auth").(services.InterfaceSocialAuthService)
	c.Ctx.HTML(http.StatusOK, "login.html", gin.H{
		"role":           "user",
		"social_enabled": socialAuthService.Enabled(),
	})
}

// Login 处理网页登录表单
// @Summary      网页登录
// @Description  校验凭据后写入会话Cookie并按角色跳转。表单里的角色
// @Description  只决定跳转目标和错误文案，不参与认证本身。
// @Tags         Auth
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        username formData string true "用户名或邮箱"
// @Param        password formData string true "密码"
// @Param        role formData string false "登录入口: admin 或 user"
// @Success      302  {string}  string
// @Router       /login/ [post]
func (c *AuthController) Login() {
	username := strings.TrimSpace(c.Ctx.PostForm("username"))
	password := c.Ctx.PostForm("password")
	roleHint := c.Ctx.DefaultPostForm("role", "user")

	renderError := func(message string) {
		socialAuthService := c.Container.GetService("social_auth").(services.InterfaceSocialAuthService)
		c.Ctx.HTML(http.StatusOK, "login.html", gin.H{
			"error":          message,
			"role":           roleHint,
			"social_enabled": socialAuthService.Enabled(),
		})
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	user, err := jwtService.Authenticate(username, password)
	if err != nil {
		if roleHint == "admin" {
			renderError("Invalid admin credentials.")
		} else {
			renderError("Invalid username or password.")
		}
		return
	}

	// 认证通过后再做授权检查，普通账号走不进管理入口
	if roleHint == "admin" && !user.IsAdmin() {
		renderError("You are not authorized to access the admin dashboard.")
		return
	}

	role := services.RoleForUser(user)
	access, _, err := c.issueTokens(user.ID, role)
	if err != nil {
		renderError("Login failed, please try again.")
		return
	}

	c.setSession(access)
	if roleHint == "admin" {
		c.Ctx.Redirect(http.StatusFound, "/admin-dashboard/users/")
		return
	}
	c.Ctx.Redirect(http.StatusFound, homeFor(role))
}

// ShowSignup 渲染注册页面，查询参数用于社交登录后的信息预填
// @Summary      注册页面
// @Tags         Auth
// @Produce      html
// @Param        email query string false "预填邮箱"
// @Param        first_name query string false "预填名"
// @Param        last_name query string false "预填姓"
// @Success      200  {string}  string
// @Router       /signup/ [get]
func (c *AuthController) ShowSignup() {
	c.Ctx.HTML(http.StatusOK, "sign-up.html", gin.H{
		"email":      c.Ctx.Query("email"),
		"first_name": c.Ctx.Query("first_name"),
		"last_name":  c.Ctx.Query("last_name"),
	})
}

// Signup 处理网页注册表单
// @Summary      网页注册
// @Description  创建账号和业主档案，注册成功后自动登录并跳转到业主面板
// @Tags         Auth
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        username formData string true "用户名"
// @Param        email formData string true "邮箱"
// @Param        password1 formData string true "密码"
// @Param        password2 formData string true "确认密码"
// @Param        first_name formData string false "名"
// @Param        last_name formData string false "姓"
// @Param        apartment_number formData string false "门牌号"
// @Success      302  {string}  string
// @Router       /signup/ [post]
func (c *AuthController) Signup() {
	input := services.RegistrationInput{
		Username:        strings.TrimSpace(c.Ctx.PostForm("username")),
		Email:           strings.TrimSpace(c.Ctx.PostForm("email")),
		Password:        c.Ctx.PostForm("password1"),
		FirstName:       c.Ctx.PostForm("first_name"),
		LastName:        c.Ctx.PostForm("last_name"),
		ApartmentNumber: strings.TrimSpace(c.Ctx.PostForm("apartment_number")),
	}
	password2 := c.Ctx.PostForm("password2")

	renderError := func(message string) {
		c.Ctx.HTML(http.StatusOK, "sign-up.html", gin.H{
			"error":      message,
			"username":   input.Username,
			"email":      input.Email,
			"first_name": input.FirstName,
			"last_name":  input.LastName,
		})
	}

	if fieldErrors := services.ValidateRegistration(input); len(fieldErrors) > 0 {
		c.Ctx.HTML(http.StatusOK, "sign-up.html", gin.H{
			"errors":     fieldErrors,
			"username":   input.Username,
			"email":      input.Email,
			"first_name": input.FirstName,
			"last_name":  input.LastName,
		})
		return
	}
	if input.Password != password2 {
		renderError("Passwords do not match.")
		return
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	user, err := residentService.Register(input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			renderError("This username is already taken.")
		case errors.Is(err, services.ErrEmailTaken):
			renderError("This email is already registered.")
		default:
			renderError("Registration failed, please try again.")
		}
		return
	}

	// 欢迎邮件失败只记日志，账号已经创建成功
	emailService := c.Container.GetService("email").(services.InterfaceEmailService)
	if err := emailService.SendWelcomeEmail(user); err != nil {
		logger.Warning("发送欢迎邮件失败: %v", err)
	}

	// 新注册影响按月统计曲线
	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	adminService.InvalidateStatsCache()

	role := services.RoleForUser(user)
	access, _, err := c.issueTokens(user.ID, role)
	if err != nil {
		c.Ctx.Redirect(http.StatusFound, "/login/")
		return
	}

	c.setSession(access)
	c.Ctx.Redirect(http.StatusFound, homeFor(role))
}

// Logout 退出登录
// @Summary      退出登录
// @Tags         Auth
// @Produce      html
// @Success      302  {string}  string
// @Router       /logout/ [get]
func (c *AuthController) Logout() {
	c.clearSession()
	c.Ctx.Redirect(http.StatusFound, "/")
}

// APILogin 处理API登录
// @Summary      API登录
// @Description  校验凭据并签发访问令牌和刷新令牌
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "登录凭据"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/login/ [post]
func (c *AuthController) APILogin() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  gin.H{"detail": "username and password are required"},
		})
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	user, err := jwtService.Authenticate(req.Username, req.Password)
	if err != nil {
		c.Ctx.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"errors":  gin.H{"detail": "Invalid credentials"},
		})
		return
	}

	role := services.RoleForUser(user)
	access, refresh, err := c.issueTokens(user.ID, role)
	if err != nil {
		response.ServerError(c.Ctx)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"access":  access,
		"refresh": refresh,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     role,
		},
	})
}

// APISignup 处理API注册
// @Summary      API注册
// @Description  创建账号和业主档案并直接签发令牌
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "注册信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /api/signup/ [post]
func (c *AuthController) APISignup() {
	var req SignupRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  gin.H{"detail": err.Error()},
		})
		return
	}

	input := services.RegistrationInput{
		Username:        req.Username,
		Password:        req.Password,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		ApartmentNumber: req.ApartmentNumber,
	}
	if fieldErrors := services.ValidateRegistration(input); len(fieldErrors) > 0 {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  fieldErrors,
		})
		return
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	user, err := residentService.Register(input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			c.Ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"errors":  gin.H{"username": "This username is already taken."},
			})
		case errors.Is(err, services.ErrEmailTaken):
			c.Ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"errors":  gin.H{"email": "This email is already registered."},
			})
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "注册失败", nil)
		}
		return
	}

	emailService := c.Container.GetService("email").(services.InterfaceEmailService)
	if err := emailService.SendWelcomeEmail(user); err != nil {
		logger.Warning("发送欢迎邮件失败: %v", err)
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	adminService.InvalidateStatsCache()

	role := services.RoleForUser(user)
	access, refresh, err := c.issueTokens(user.ID, role)
	if err != nil {
		response.ServerError(c.Ctx)
		return
	}

	c.Ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"access":  access,
		"refresh": refresh,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     role,
		},
	})
}

// GoogleLogin 跳转到Google授权页
// @Summary      Google登录
// @Tags         Auth
// @Produce      html
// @Success      302  {string}  string
// @Router       /auth/google/login/ [get]
func (c *AuthController) GoogleLogin() {
	socialAuthService := c.Container.GetService("social_auth").(services.InterfaceSocialAuthService)
	if !socialAuthService.Enabled() {
		c.Ctx.Redirect(http.StatusFound, "/login/")
		return
	}

	// 随机state写入临时Cookie，回调时校验
	state := uuid.New().String()
	c.Ctx.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Ctx.Redirect(http.StatusFound, socialAuthService.AuthCodeURL(state))
}

// GoogleCallback 处理Google授权回调
// @Summary      Google登录回调
// @Description  校验state后用邮箱和本地业主账号对账。匹配到唯一账号
// @Description  直接登录，没有匹配则带上预填信息跳转注册页。
// @Tags         Auth
// @Produce      html
// @Param        state query string true "OAuth状态参数"
// @Param        code query string true "授权码"
// @Success      302  {string}  string
// @Router       /auth/google/callback/ [get]
func (c *AuthController) GoogleCallback() {
	socialAuthService := c.Container.GetService("social_auth").(services.InterfaceSocialAuthService)

	renderError := func(message string) {
		c.Ctx.HTML(http.StatusOK, "login.html", gin.H{
			"error":          message,
			"role":           "user",
			"social_enabled": socialAuthService.Enabled(),
		})
	}

	state, err := c.Ctx.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Ctx.Query("state") {
		renderError("Sign in with Google failed, please try again.")
		return
	}
	c.Ctx.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	claims, err := socialAuthService.FetchClaims(c.Ctx.Request.Context(), c.Ctx.Query("code"))
	if err != nil {
		logger.Warning("获取Google用户信息失败: %v", err)
		renderError("Sign in with Google failed, please try again.")
		return
	}

	user, err := socialAuthService.Reconcile(claims.Email)
	if err != nil {
		if errors.Is(err, services.ErrNoResidentMatch) {
			// 没有业主账号，转到注册页并预填资料
			q := url.Values{}
			q.Set("email", claims.Email)
			q.Set("first_name", claims.FirstName)
			q.Set("last_name", claims.LastName)
			c.Ctx.Redirect(http.StatusFound, "/signup/?"+q.Encode())
			return
		}
		if errors.Is(err, services.ErrAmbiguousEmail) {
			renderError("This email matches more than one account, please contact the administrator.")
			return
		}
		renderError("Sign in with Google failed, please try again.")
		return
	}

	role := services.RoleForUser(user)
	access, _, err := c.issueTokens(user.ID, role)
	if err != nil {
		renderError("Sign in with Google failed, please try again.")
		return
	}

	c.setSession(access)
	c.Ctx.Redirect(http.StatusFound, "/")
}

// ShowForgotPassword 渲染忘记密码页面
// @Summary      忘记密码页面
// @Tags         Auth
// @Produce      html
// @Success      200  {string}  string
// @Router       /forgot_password/ [get]
func (c *AuthController) ShowForgotPassword() {
	c.Ctx.HTML(http.StatusOK, "forgot.html", gin.H{})
}

// ForgotPassword 发起密码重置
// @Summary      发起密码重置
// @Description  无论邮箱是否注册过都显示同样的结果页
// @Tags         Auth
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        email formData string true "邮箱"
// @Success      200  {string}  string
// @Router       /forgot_password/ [post]
func (c *AuthController) ForgotPassword() {
	email := strings.TrimSpace(c.Ctx.PostForm("email"))
	if email == "" {
		c.Ctx.HTML(http.StatusOK, "forgot.html", gin.H{
			"error": "Email is required.",
		})
		return
	}

	passwordResetService := c.Container.GetService("password_reset").(services.InterfacePasswordResetService)
	if err := passwordResetService.RequestReset(email); err != nil {
		logger.Error("发起密码重置失败: %v", err)
	}

	c.Ctx.HTML(http.StatusOK, "password_reset_done.html", gin.H{})
}

// ShowResetPassword 渲染设置新密码页面
// @Summary      设置新密码页面
// @Tags         Auth
// @Produce      html
// @Param        token path string true "重置令牌"
// @Success      200  {string}  string
// @Router       /reset/{token}/ [get]
func (c *AuthController) ShowResetPassword() {
	c.Ctx.HTML(http.StatusOK, "password_reset_confirm.html", gin.H{
		"token": c.Ctx.Param("token"),
	})
}

// ResetPassword 用重置令牌设置新密码
// @Summary      重置密码
// @Tags         Auth
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        token path string true "重置令牌"
// @Param        password1 formData string true "新密码"
// @Param        password2 formData string true "确认新密码"
// @Success      200  {string}  string
// @Router       /reset/{token}/ [post]
func (c *AuthController) ResetPassword() {
	token := c.Ctx.Param("token")
	password1 := c.Ctx.PostForm("password1")
	password2 := c.Ctx.PostForm("password2")

	renderError := func(message string) {
		c.Ctx.HTML(http.StatusOK, "password_reset_confirm.html", gin.H{
			"token": token,
			"error": message,
		})
	}

	if password1 == "" || password1 != password2 {
		renderError("Passwords do not match.")
		return
	}

	passwordResetService := c.Container.GetService("password_reset").(services.InterfacePasswordResetService)
	if err := passwordResetService.ResetPassword(token, password1); err != nil {
		if errors.Is(err, services.ErrResetTokenInvalid) {
			renderError("This reset link is invalid or has expired.")
			return
		}
		renderError("Failed to reset password, please try again.")
		return
	}

	c.Ctx.HTML(http.StatusOK, "password_reset_complete.html", gin.H{})
}

// HandleAuthFunc 返回一个处理认证请求的Gin处理函数
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "showLogin":
			controller.ShowLogin()
		case "login":
			controller.Login()
		case "showSignup":
			controller.ShowSignup()
		case "signup":
			controller.Signup()
		case "logout":
			controller.Logout()
		case "apiLogin":
			controller.APILogin()
		case "apiSignup":
			controller.APISignup()
		case "googleLogin":
			controller.GoogleLogin()
		case "googleCallback":
			controller.GoogleCallback()
		case "showForgotPassword":
			controller.ShowForgotPassword()
		case "forgotPassword":
			controller.ForgotPassword()
		case "showResetPassword":
			controller.ShowResetPassword()
		case "resetPassword":
			controller.ResetPassword()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}
