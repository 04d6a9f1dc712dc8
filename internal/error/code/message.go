package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:          "成功",
	ErrUnknown:          "未知错误",
	ErrBind:             "请求参数绑定错误",
	ErrValidation:       "请求参数验证错误",
	ErrTokenInvalid:     "无效的认证令牌",
	ErrTooManyRequests:  "请求频率过高",
	ErrPermissionDenied: "权限不足",

	// 账号相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "用户已存在",
	ErrUserPasswordIncorrect: "用户密码错误",
	ErrEmailAlreadyExist:     "邮箱已被注册",
	ErrEmailAmbiguous:        "邮箱匹配到多个账号",
	ErrResetTokenInvalid:     "重置令牌无效或已过期",

	// 业主相关错误码
	ErrResidentNotFound:     "业主不存在",
	ErrResidentAlreadyExist: "业主已存在",

	// 投诉相关错误码
	ErrComplaintNotFound:       "投诉不存在",
	ErrComplaintStatusRequired: "缺少投诉状态",
	ErrComplaintNotOwned:       "投诉不属于该业主",
	ErrAttachmentUploadFailed:  "附件上传失败",

	// 评价相关错误码
	ErrTestimonialNotFound: "评价不存在",

	// 留言相关错误码
	ErrContactMessageInvalid: "留言内容不完整",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",

	// 邮件相关错误码
	ErrMailSendFailed: "邮件发送失败",

	// 社交登录相关错误码
	ErrOAuthStateMismatch:  "OAuth状态参数不匹配",
	ErrOAuthExchangeFailed: "OAuth令牌交换失败",
	ErrOAuthUserinfoFailed: "获取第三方用户信息失败",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:          StatusOK,
	ErrUnknown:          StatusInternalServerError,
	ErrBind:             StatusBadRequest,
	ErrValidation:       StatusBadRequest,
	ErrTokenInvalid:     StatusUnauthorized,
	ErrTooManyRequests:  StatusTooManyRequests,
	ErrPermissionDenied: StatusForbidden,

	// 账号相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,
	ErrEmailAlreadyExist:     StatusBadRequest,
	ErrEmailAmbiguous:        StatusInternalServerError,
	ErrResetTokenInvalid:     StatusBadRequest,

	// 业主相关错误码
	ErrResidentNotFound:     StatusNotFound,
	ErrResidentAlreadyExist: StatusBadRequest,

	// 投诉相关错误码
	ErrComplaintNotFound:       StatusNotFound,
	ErrComplaintStatusRequired: StatusBadRequest,
	ErrComplaintNotOwned:       StatusNotFound,
	ErrAttachmentUploadFailed:  StatusInternalServerError,

	// 评价相关错误码
	ErrTestimonialNotFound: StatusNotFound,

	// 留言相关错误码
	ErrContactMessageInvalid: StatusBadRequest,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// 邮件相关错误码
	ErrMailSendFailed: StatusInternalServerError,

	// 社交登录相关错误码
	ErrOAuthStateMismatch:  StatusBadRequest,
	ErrOAuthExchangeFailed: StatusInternalServerError,
	ErrOAuthUserinfoFailed: StatusInternalServerError,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
