package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hudaazehraa/neighborly/internal/domain/services"
	"github.com/hudaazehraa/neighborly/internal/domain/services/container"
	"github.com/hudaazehraa/neighborly/internal/error/code"
	"github.com/hudaazehraa/neighborly/internal/error/response"
)

// InterfaceTestimonialController 定义评价控制器接口
type InterfaceTestimonialController interface {
	ShowFeedbackForm()
	SubmitFeedback()
}

// TestimonialController 处理业主评价相关的请求
type TestimonialController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTestimonialController 创建一个新的评价控制器
func NewTestimonialController(ctx *gin.Context, container *container.ServiceContainer) *TestimonialController {
	return &TestimonialController{
		Ctx:       ctx,
		Container: container,
	}
}

// ShowFeedbackForm 渲染评价表单页面
// @Summary      评价表单页面
// @Tags         Testimonial
// @Produce      html
// @Security     BearerAuth
// @Success      200  {string}  string
// @Router       /feedback/ [get]
func (c *TestimonialController) ShowFeedbackForm() {
	c.Ctx.HTML(http.StatusOK, "feedback-form.html", gin.H{})
}

// SubmitFeedback 提交评价
// @Summary      提交评价
// @Description  保存业主评价，新评价一律待审核，审核后才会在首页展示
// @Tags         Testimonial
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        rating formData int false "评分1到5"
// @Param        comments formData string true "评价内容"
// @Security     BearerAuth
// @Success      200  {string}  string
// @Router       /feedback/ [post]
func (c *TestimonialController) SubmitFeedback() {
	userID := c.Ctx.GetUint("userID")

	rating, _ := strconv.Atoi(c.Ctx.PostForm("rating"))
	comments := strings.TrimSpace(c.Ctx.PostForm("comments"))
	if comments == "" {
		if isXHR(c.Ctx) {
			c.Ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"errors":  gin.H{"comments": "This field is required."},
			})
			return
		}
		c.Ctx.HTML(http.StatusOK, "feedback-form.html", gin.H{
			"error": "Please write a few words before submitting.",
		})
		return
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	resident, err := residentService.GetOrCreateByUserID(userID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取业主档案失败", nil)
		return
	}

	testimonialService := c.Container.GetService("testimonial").(services.InterfaceTestimonialService)
	if _, err := testimonialService.CreateTestimonial(resident.ID, rating, comments); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "保存评价失败", nil)
		return
	}

	if isXHR(c.Ctx) {
		c.Ctx.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Thank you for your feedback!",
		})
		return
	}
	c.Ctx.HTML(http.StatusOK, "feedback-form.html", gin.H{
		"submitted": true,
	})
}

// HandleTestimonialFunc 返回一个处理评价请求的Gin处理函数
func HandleTestimonialFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTestimonialController(ctx, container)

		switch method {
		case "showFeedbackForm":
			controller.ShowFeedbackForm()
		case "submitFeedback":
			controller.SubmitFeedback()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}
