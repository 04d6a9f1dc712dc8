package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
	// ErrPermissionDenied - 403: 权限不足.
	ErrPermissionDenied
)

// 账号相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
	// ErrEmailAlreadyExist - 400: 邮箱已被注册.
	ErrEmailAlreadyExist
	// ErrEmailAmbiguous - 500: 邮箱匹配到多个账号.
	ErrEmailAmbiguous
	// ErrResetTokenInvalid - 400: 重置令牌无效或已过期.
	ErrResetTokenInvalid
)

// 业主相关错误码 (102xxx).
const (
	// ErrResidentNotFound - 404: 业主不存在.
	ErrResidentNotFound int = iota + 102000
	// ErrResidentAlreadyExist - 400: 业主已存在.
	ErrResidentAlreadyExist
)

// 投诉相关错误码 (103xxx).
const (
	// ErrComplaintNotFound - 404: 投诉不存在.
	ErrComplaintNotFound int = iota + 103000
	// ErrComplaintStatusRequired - 400: 缺少投诉状态.
	ErrComplaintStatusRequired
	// ErrComplaintNotOwned - 404: 投诉不属于该业主.
	ErrComplaintNotOwned
	// ErrAttachmentUploadFailed - 500: 附件上传失败.
	ErrAttachmentUploadFailed
)

// 评价相关错误码 (104xxx).
const (
	// ErrTestimonialNotFound - 404: 评价不存在.
	ErrTestimonialNotFound int = iota + 104000
)

// 留言相关错误码 (105xxx).
const (
	// ErrContactMessageInvalid - 400: 留言内容不完整.
	ErrContactMessageInvalid int = iota + 105000
)

// 数据库相关错误码 (106xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 106000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)

// 邮件相关错误码 (107xxx).
const (
	// ErrMailSendFailed - 500: 邮件发送失败.
	ErrMailSendFailed int = iota + 107000
)

// 社交登录相关错误码 (108xxx).
const (
	// ErrOAuthStateMismatch - 400: OAuth状态参数不匹配.
	ErrOAuthStateMismatch int = iota + 108000
	// ErrOAuthExchangeFailed - 500: OAuth令牌交换失败.
	ErrOAuthExchangeFailed
	// ErrOAuthUserinfoFailed - 500: 获取第三方用户信息失败.
	ErrOAuthUserinfoFailed
)
