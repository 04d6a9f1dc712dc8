package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
	"github.com/hudaazehraa/neighborly/internal/domain/services"
	"github.com/hudaazehraa/neighborly/internal/domain/services/container"
	"github.com/hudaazehraa/neighborly/internal/error/code"
	"github.com/hudaazehraa/neighborly/internal/error/response"
	"github.com/hudaazehraa/neighborly/pkg/logger"
)

// InterfaceComplaintController 定义投诉控制器接口
type InterfaceComplaintController interface {
	ShowComplaintForm()
	SubmitComplaint()
	ComplaintStatus()
	ResidentDashboard()
	ResolveOwnComplaint()
	APISubmitComplaint()
}

// ComplaintController 处理投诉相关的请求
type ComplaintController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewComplaintController 创建一个新的投诉控制器
func NewComplaintController(ctx *gin.Context, container *container.ServiceContainer) *ComplaintController {
	return &ComplaintController{
		Ctx:       ctx,
		Container: container,
	}
}

// APIComplaintRequest 表示API投诉提交
type APIComplaintRequest struct {
	Title       string `json:"title" binding:"required" example:"Broken elevator"`
	Description string `json:"description" binding:"required" example:"The elevator in block B is stuck."`
	Category    string `json:"category" example:"maintenance"`
}

// isXHR 判断是否为前端脚本发起的请求
func isXHR(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("x-requested-with"), "XMLHttpRequest")
}

// currentResident 获取当前登录账号的业主档案
func (c *ComplaintController) currentResident() (*models.Resident, error) {
	userID := c.Ctx.GetUint("userID")
	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	return residentService.GetOrCreateByUserID(userID)
}

// notifySubmitted 投诉提交后的邮件通知，失败只记日志
func (c *ComplaintController) notifySubmitted(complaint *models.Complaint, resident *models.Resident) {
	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	user, err := residentService.GetUserByID(resident.UserID)
	if err != nil {
		logger.Warning("获取投诉人账号失败: %v", err)
		return
	}

	emailService := c.Container.GetService("email").(services.InterfaceEmailService)
	if err := emailService.SendComplaintAdminNotification(complaint, user, resident.ApartmentNumber); err != nil {
		logger.Warning("发送投诉管理员通知失败: %v", err)
	}
	if err := emailService.SendComplaintConfirmation(complaint, user); err != nil {
		logger.Warning("发送投诉确认邮件失败: %v", err)
	}
}

// ShowComplaintForm 渲染投诉表单页面
// @Summary      投诉表单页面
// @Tags         Complaint
// @Produce      html
// @Security     BearerAuth
// @Success      200  {string}  string
// @Router       /complaint/ [get]
func (c *ComplaintController) ShowComplaintForm() {
	c.Ctx.HTML(http.StatusOK, "complaint.html", gin.H{
		"categories": models.ComplaintCategories(),
	})
}

// SubmitComplaint 处理网页投诉提交
// @Summary      提交投诉
// @Description  保存投诉并通知管理员和投诉人。前端脚本提交时返回JSON，
// @Description  普通表单提交时重定向到状态页。
// @Tags         Complaint
// @Accept       mpfd
// @Produce      json
// @Param        title formData string true "标题"
// @Param        description formData string true "描述"
// @Param        category formData string false "类别"
// @Param        image formData file false "图片附件"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /complaint/ [post]
func (c *ComplaintController) SubmitComplaint() {
	title := strings.TrimSpace(c.Ctx.PostForm("title"))
	description := strings.TrimSpace(c.Ctx.PostForm("description"))
	category := c.Ctx.PostForm("category")

	fail := func(status int, fieldErrors gin.H) {
		if isXHR(c.Ctx) {
			c.Ctx.JSON(status, gin.H{
				"success": false,
				"errors":  fieldErrors,
			})
			return
		}
		c.Ctx.HTML(http.StatusOK, "complaint.html", gin.H{
			"errors":     fieldErrors,
			"title":      title,
			"description": description,
			"categories": models.ComplaintCategories(),
		})
	}

	fieldErrors := gin.H{}
	if title == "" {
		fieldErrors["title"] = "This field is required."
	}
	if description == "" {
		fieldErrors["description"] = "This field is required."
	}
	if len(fieldErrors) > 0 {
		fail(http.StatusBadRequest, fieldErrors)
		return
	}

	resident, err := c.currentResident()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取业主档案失败", nil)
		return
	}

	// 图片附件可选，保存失败算提交失败
	imagePath := ""
	if file, err := c.Ctx.FormFile("image"); err == nil && file != nil {
		storageService := c.Container.GetService("storage").(services.InterfaceStorageService)
		imagePath, err = storageService.SaveComplaintImage(file)
		if err != nil {
			logger.Error("保存投诉图片失败: %v", err)
			fail(http.StatusInternalServerError, gin.H{"image": "Failed to upload the attachment."})
			return
		}
	}

	complaintService := c.Container.GetService("complaint").(services.InterfaceComplaintService)
	complaint, err := complaintService.CreateComplaint(resident.ID, services.ComplaintInput{
		Title:       title,
		Description: description,
		Category:    category,
		Image:       imagePath,
	})
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "保存投诉失败", nil)
		return
	}

	c.notifySubmitted(complaint, resident)

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	adminService.InvalidateStatsCache()

	if isXHR(c.Ctx) {
		c.Ctx.JSON(http.StatusOK, gin.H{
			"success":      true,
			"complaint_id": complaint.ID,
		})
		return
	}
	c.Ctx.Redirect(http.StatusFound, "/complaints/status/")
}

// ComplaintStatus 渲染投诉状态页，支持类别、状态和标题搜索过滤
// @Summary      投诉状态页
// @Tags         Complaint
// @Produce      html
// @Param        category query string false "类别过滤，all表示不过滤"
// @Param        status query string false "状态过滤，all表示不过滤"
// @Param        search query string false "标题搜索"
// @Security     BearerAuth
// @Success      200  {string}  string
// @Router       /complaints/status/ [get]
func (c *ComplaintController) ComplaintStatus() {
	resident, err := c.currentResident()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取业主档案失败", nil)
		return
	}

	filter := services.ComplaintFilter{
		Category: c.Ctx.Query("category"),
		Status:   c.Ctx.Query("status"),
		Search:   c.Ctx.Query("search"),
	}

	complaintService := c.Container.GetService("complaint").(services.InterfaceComplaintService)
	complaints, err := complaintService.QueryByResident(resident.ID, filter)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询投诉失败", nil)
		return
	}

	c.Ctx.HTML(http.StatusOK, "complaint_status.html", gin.H{
		"complaints": complaints,
		"no_results": len(complaints) == 0,
		"categories": models.ComplaintCategories(),
		"statuses":   models.ComplaintStatuses(),
		"category":   filter.Category,
		"status":     filter.Status,
		"search":     filter.Search,
	})
}

// ResidentDashboard 渲染业主面板，列出自己的全部投诉
// @Summary      业主面板
// @Tags         Complaint
// @Produce      html
// @Security     BearerAuth
// @Success      200  {string}  string
// @Router       /resident/dashboard/ [get]
func (c *ComplaintController) ResidentDashboard() {
	resident, err := c.currentResident()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取业主档案失败", nil)
		return
	}

	complaintService := c.Container.GetService("complaint").(services.InterfaceComplaintService)
	complaints, err := complaintService.ListByResident(resident.ID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询投诉失败", nil)
		return
	}

	c.Ctx.HTML(http.StatusOK, "resident_dashboard.html", gin.H{
		"resident":   resident,
		"complaints": complaints,
	})
}

// ResolveOwnComplaint 业主把自己的投诉标记为已解决
// @Summary      业主自行关闭投诉
// @Description  投诉必须属于当前业主，否则按不存在处理
// @Tags         Complaint
// @Produce      html
// @Param        id path int true "投诉ID"
// @Security     BearerAuth
// @Success      302  {string}  string
// @Failure      404  {object}  response.Response
// @Router       /complaints/{id}/resolve/ [post]
func (c *ComplaintController) ResolveOwnComplaint() {
	idUint, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的投诉ID", nil)
		return
	}

	resident, err := c.currentResident()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取业主档案失败", nil)
		return
	}

	complaintService := c.Container.GetService("complaint").(services.InterfaceComplaintService)
	if _, err := complaintService.ResolveOwned(uint(idUint), resident.ID); err != nil {
		if errors.Is(err, services.ErrComplaintNotFound) {
			response.Fail(c.Ctx, code.ErrComplaintNotOwned, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新投诉失败", nil)
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	adminService.InvalidateStatsCache()

	if isXHR(c.Ctx) {
		c.Ctx.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.Ctx.Redirect(http.StatusFound, "/resident/dashboard/")
}

// APISubmitComplaint 处理API投诉提交
// @Summary      API提交投诉
// @Tags         Complaint
// @Accept       json
// @Produce      json
// @Param        request body APIComplaintRequest true "投诉内容"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /api/complaints/submit/ [post]
func (c *ComplaintController) APISubmitComplaint() {
	var req APIComplaintRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  gin.H{"detail": "title and description are required"},
		})
		return
	}

	resident, err := c.currentResident()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取业主档案失败", nil)
		return
	}

	complaintService := c.Container.GetService("complaint").(services.InterfaceComplaintService)
	complaint, err := complaintService.CreateComplaint(resident.ID, services.ComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "保存投诉失败", nil)
		return
	}

	c.notifySubmitted(complaint, resident)

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	adminService.InvalidateStatsCache()

	c.Ctx.JSON(http.StatusOK, gin.H{
		"success":      true,
		"complaint_id": complaint.ID,
		"status":       complaint.Status,
	})
}

// HandleComplaintFunc 返回一个处理投诉请求的Gin处理函数
func HandleComplaintFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewComplaintController(ctx, container)

		switch method {
		case "showComplaintForm":
			controller.ShowComplaintForm()
		case "submitComplaint":
			controller.SubmitComplaint()
		case "complaintStatus":
			controller.ComplaintStatus()
		case "residentDashboard":
			controller.ResidentDashboard()
		case "resolveOwnComplaint":
			controller.ResolveOwnComplaint()
		case "apiSubmitComplaint":
			controller.APISubmitComplaint()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}
