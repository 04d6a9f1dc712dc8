package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hudaazehraa/neighborly/internal/domain/services"
	"github.com/hudaazehraa/neighborly/internal/domain/services/container"
	"github.com/hudaazehraa/neighborly/internal/error/code"
	"github.com/hudaazehraa/neighborly/internal/error/response"
	"github.com/hudaazehraa/neighborly/pkg/logger"
)

// InterfaceContactController 定义联系表单控制器接口
type InterfaceContactController interface {
	ShowContactPage()
	SubmitContact()
}

// ContactController 处理联系表单相关的请求
type ContactController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewContactController 创建一个新的联系表单控制器
func NewContactController(ctx *gin.Context, container *container.ServiceContainer) *ContactController {
	return &ContactController{
		Ctx:       ctx,
		Container: container,
	}
}

// ContactRequest 表示联系表单提交
type ContactRequest struct {
	Name    string `json:"name" form:"name" example:"Jane Doe"`
	Email   string `json:"email" form:"email" example:"jane@example.com"`
	Subject string `json:"subject" form:"subject" example:"Parking"`
	Message string `json:"message" form:"message" example:"The gate light is broken."`
}

// ShowContactPage 渲染联系我们页面
// @Summary      联系我们页面
// @Tags         Contact
// @Produce      html
// @Success      200  {string}  string
// @Router       /contact/ [get]
func (c *ContactController) ShowContactPage() {
	c.Ctx.HTML(http.StatusOK, "contact.html", gin.H{})
}

// SubmitContact 保存联系留言并通知收件邮箱
// @Summary      提交联系留言
// @Description  保存留言并转发到固定收件邮箱，邮件失败不影响提交结果
// @Tags         Contact
// @Accept       json
// @Produce      json
// @Param        request body ContactRequest true "留言内容"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /contact/ [post]
func (c *ContactController) SubmitContact() {
	var req ContactRequest
	if err := c.Ctx.ShouldBind(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"errors": gin.H{"detail": "Invalid request."},
		})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	fieldErrors := gin.H{}
	if req.Name == "" {
		fieldErrors["name"] = "This field is required."
	}
	if req.Email == "" {
		fieldErrors["email"] = "This field is required."
	}
	if req.Message == "" {
		fieldErrors["message"] = "This field is required."
	}
	if len(fieldErrors) > 0 {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"errors": fieldErrors,
		})
		return
	}

	contactService := c.Container.GetService("contact").(services.InterfaceContactService)
	message, err := contactService.CreateContactMessage(req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to save your message.",
		})
		return
	}

	// 通知失败只记日志，留言已经落库
	emailService := c.Container.GetService("email").(services.InterfaceEmailService)
	if err := emailService.SendContactNotification(message); err != nil {
		logger.Warning("转发联系留言邮件失败: %v", err)
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Your message has been sent. Thank you!",
	})
}

// HandleContactFunc 返回一个处理联系表单请求的Gin处理函数
func HandleContactFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewContactController(ctx, container)

		switch method {
		case "showContactPage":
			controller.ShowContactPage()
		case "submitContact":
			controller.SubmitContact()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}
