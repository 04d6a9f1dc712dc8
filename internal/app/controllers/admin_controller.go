package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hudaazehraa/neighborly/internal/app/middleware"
	"github.com/hudaazehraa/neighborly/internal/domain/models"
	"github.com/hudaazehraa/neighborly/internal/domain/services"
	"github.com/hudaazehraa/neighborly/internal/domain/services/container"
	"github.com/hudaazehraa/neighborly/internal/error/code"
	"github.com/hudaazehraa/neighborly/internal/error/response"
	"github.com/hudaazehraa/neighborly/pkg/logger"
)

// InterfaceAdminController 定义管理后台控制器接口
type InterfaceAdminController interface {
	UsersList()
	UserDetail()
	UserDetailAction()
	APIUpdateComplaintStatus()
}

// AdminController 处理管理后台相关的请求
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminController 创建一个新的管理后台控制器
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
	}
}

// UpdateStatusRequest 表示投诉状态更新请求
type UpdateStatusRequest struct {
	Status string `json:"status" form:"status" example:"Resolved"`
}

// UsersList 渲染业主列表页，附带投诉统计和按月注册曲线
// @Summary      业主列表
// @Tags         Admin
// @Produce      html
// @Param        q query string false "按用户名或门牌号搜索"
// @Security     BearerAuth
// @Success      200  {string}  string
// @Router       /admin-dashboard/users/ [get]
func (c *AdminController) UsersList() {
	query := strings.TrimSpace(c.Ctx.Query("q"))

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	residents, err := adminService.ListResidents(query)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询业主列表失败", nil)
		return
	}

	stats, err := adminService.GetDashboardStats()
	if err != nil {
		logger.Warning("获取仪表盘统计失败: %v", err)
		stats = &services.DashboardStats{}
	}

	c.Ctx.HTML(http.StatusOK, "admin_users_list.html", gin.H{
		"residents": residents,
		"stats":     stats,
		"q":         query,
	})
}

// UserDetail 渲染业主详情页，列出该业主的全部投诉
// @Summary      业主详情
// @Tags         Admin
// @Produce      html
// @Param        id path int true "业主ID"
// @Security     BearerAuth
// @Success      200  {string}  string
// @Failure      404  {object}  response.Response
// @Router       /admin-dashboard/users/{id}/ [get]
func (c *AdminController) UserDetail() {
	idUint, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的业主ID", nil)
		return
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	resident, err := residentService.GetResidentByID(uint(idUint))
	if err != nil {
		response.NotFound(c.Ctx, "业主不存在")
		return
	}

	complaintService := c.Container.GetService("complaint").(services.InterfaceComplaintService)
	complaints, err := complaintService.ListByResident(resident.ID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询投诉失败", nil)
		return
	}

	c.Ctx.HTML(http.StatusOK, "admin_user_detail.html", gin.H{
		"resident":   resident,
		"complaints": complaints,
	})
}

// UserDetailAction 处理详情页上的操作：标记解决或追加回复
// @Summary      业主详情页操作
// @Description  action为resolve时把投诉标记为已解决并通知业主，
// @Description  action为reply时在投诉下追加一条回复。
// @Tags         Admin
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        id path int true "业主ID"
// @Param        action formData string true "操作: resolve 或 reply"
// @Param        complaint_id formData int true "投诉ID"
// @Param        message formData string false "回复内容，reply时必填"
// @Security     BearerAuth
// @Success      302  {string}  string
// @Router       /admin-dashboard/users/{id}/ [post]
func (c *AdminController) UserDetailAction() {
	residentID, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的业主ID", nil)
		return
	}
	action := c.Ctx.PostForm("action")
	complaintID, err := strconv.ParseUint(c.Ctx.PostForm("complaint_id"), 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的投诉ID", nil)
		return
	}

	complaintService := c.Container.GetService("complaint").(services.InterfaceComplaintService)

	switch action {
	case "resolve":
		if err := c.resolveAndNotify(uint(complaintID), uint(residentID)); err != nil {
			return
		}
	case "reply":
		message := strings.TrimSpace(c.Ctx.PostForm("message"))
		if message == "" {
			response.FailWithMessage(c.Ctx, code.ErrBind, "回复内容不能为空", nil)
			return
		}
		// 投诉必须属于当前详情页的业主，否则按不存在处理
		complaint, err := complaintService.GetComplaintByID(uint(complaintID))
		if err != nil || complaint.ResidentID != uint(residentID) {
			response.Fail(c.Ctx, code.ErrComplaintNotFound, nil)
			return
		}
		if _, err := complaintService.AddReply(uint(complaintID), "admin", message); err != nil {
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "保存回复失败", nil)
			return
		}
	default:
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的操作", nil)
		return
	}

	c.Ctx.Redirect(http.StatusFound, fmt.Sprintf("/admin-dashboard/users/%d/", residentID))
}

// resolveAndNotify 标记投诉已解决并发送通知，失败时已写好响应。
// 投诉必须属于指定业主，不属于时按不存在处理。
func (c *AdminController) resolveAndNotify(complaintID, residentID uint) error {
	complaintService := c.Container.GetService("complaint").(services.InterfaceComplaintService)
	complaint, err := complaintService.ResolveOwned(complaintID, residentID)
	if err != nil {
		if errors.Is(err, services.ErrComplaintNotFound) {
			response.Fail(c.Ctx, code.ErrComplaintNotFound, nil)
			return err
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新投诉失败", nil)
		return err
	}

	c.notifyResolved(complaint)
	c.invalidateCaches()
	return nil
}

// notifyResolved 投诉解决后通知业主，失败只记日志
func (c *AdminController) notifyResolved(complaint *models.Complaint) {
	if complaint.Resident == nil || complaint.Resident.User == nil {
		logger.Warning("投诉 %d 缺少业主账号，跳过解决通知", complaint.ID)
		return
	}

	emailService := c.Container.GetService("email").(services.InterfaceEmailService)
	if err := emailService.SendResolutionNotification(complaint, complaint.Resident.User); err != nil {
		logger.Warning("发送投诉解决通知失败: %v", err)
	}
}

// invalidateCaches 投诉状态变化后使统计缓存和页面缓存失效
func (c *AdminController) invalidateCaches() {
	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	adminService.InvalidateStatsCache()
	middleware.PurgeCache()
}

// APIUpdateComplaintStatus 更新投诉状态
// @Summary      API更新投诉状态
// @Description  状态原样保存。更新为resolved时（不区分大小写）向业主
// @Description  发送解决通知，通知失败不影响更新结果。
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "投诉ID"
// @Param        request body UpdateStatusRequest true "新状态"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/complaints/{id}/status/ [post]
func (c *AdminController) APIUpdateComplaintStatus() {
	idUint, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint id"})
		return
	}

	// 同时接受JSON和表单提交
	var req UpdateStatusRequest
	if err := c.Ctx.ShouldBind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	status := strings.TrimSpace(req.Status)

	complaintService := c.Container.GetService("complaint").(services.InterfaceComplaintService)
	complaint, err := complaintService.UpdateStatus(uint(idUint), status)
	if err != nil {
		if errors.Is(err, services.ErrComplaintNotFound) {
			c.Ctx.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新投诉失败", nil)
		return
	}

	if strings.EqualFold(status, models.StatusResolved) {
		c.notifyResolved(complaint)
	}
	c.invalidateCaches()

	// 表单提交回到业主详情页，JSON请求返回JSON
	if !strings.Contains(c.Ctx.ContentType(), "application/json") {
		c.Ctx.Redirect(http.StatusFound, fmt.Sprintf("/admin-dashboard/users/%d/", complaint.ResidentID))
		return
	}
	c.Ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  complaint.Status,
		"message": "Complaint status updated",
	})
}

// HandleAdminFunc 返回一个处理管理后台请求的Gin处理函数
func HandleAdminFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container)

		switch method {
		case "usersList":
			controller.UsersList()
		case "userDetail":
			controller.UserDetail()
		case "userDetailAction":
			controller.UserDetailAction()
		case "apiUpdateComplaintStatus":
			controller.APIUpdateComplaintStatus()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}
