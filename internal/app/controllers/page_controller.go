package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
	"github.com/hudaazehraa/neighborly/internal/domain/services"
	"github.com/hudaazehraa/neighborly/internal/domain/services/container"
	"github.com/hudaazehraa/neighborly/internal/error/code"
	"github.com/hudaazehraa/neighborly/internal/error/response"
	"github.com/hudaazehraa/neighborly/pkg/logger"
)

// InterfacePageController 定义静态页面控制器接口
type InterfacePageController interface {
	Home()
	About()
	Community()
}

// PageController 处理门户页面的渲染
type PageController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPageController 创建一个新的页面控制器
func NewPageController(ctx *gin.Context, container *container.ServiceContainer) *PageController {
	return &PageController{
		Ctx:       ctx,
		Container: container,
	}
}

// Home 渲染门户首页
// @Summary      门户首页
// @Description  渲染首页，附带审核通过的业主评价和投诉的类别、状态选项
// @Tags         Page
// @Produce      html
// @Success      200  {string}  string
// @Router       / [get]
func (c *PageController) Home() {
	testimonialService := c.Container.GetService("testimonial").(services.InterfaceTestimonialService)

	// 首页只展示最近的评价，取不到时页面照常渲染
	testimonials, err := testimonialService.ListApproved(5)
	if err != nil {
		logger.Warning("获取首页评价失败: %v", err)
		testimonials = nil
	}

	c.Ctx.HTML(http.StatusOK, "index.html", gin.H{
		"testimonials": testimonials,
		"categories":   models.ComplaintCategories(),
		"statuses":     models.ComplaintStatuses(),
	})
}

// About 渲染关于我们页面
// @Summary      关于我们
// @Tags         Page
// @Produce      html
// @Success      200  {string}  string
// @Router       /about/ [get]
func (c *PageController) About() {
	testimonialService := c.Container.GetService("testimonial").(services.InterfaceTestimonialService)

	testimonials, err := testimonialService.ListApproved(5)
	if err != nil {
		logger.Warning("获取评价失败: %v", err)
		testimonials = nil
	}

	c.Ctx.HTML(http.StatusOK, "about.html", gin.H{
		"testimonials": testimonials,
	})
}

// Community 渲染社区公约页面
// @Summary      社区公约
// @Tags         Page
// @Produce      html
// @Success      200  {string}  string
// @Router       /community/ [get]
func (c *PageController) Community() {
	c.Ctx.HTML(http.StatusOK, "community.html", gin.H{})
}

// NotFoundHandler 返回404页面，接口请求返回JSON
func NotFoundHandler(c *gin.Context) {
	if c.GetHeader("Accept") != "" && c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEHTML {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
		return
	}
	response.NotFound(c, "页面不存在")
}

// HandlePageFunc 返回一个处理页面请求的Gin处理函数
func HandlePageFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPageController(ctx, container)

		switch method {
		case "home":
			controller.Home()
		case "about":
			controller.About()
		case "community":
			controller.Community()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}
