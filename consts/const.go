package consts

// 通用错误码
const (
	CodeSuccess = 0 // 成功
)

// 客户端错误 (1xxxx)
const (
	CodeParamError       = 10001 // 参数验证失败
	CodeBodyError        = 10002 // 请求体格式错误
	CodeResourceNotFound = 10003 // 资源不存在
	CodeMethodNotAllowed = 10004 // 请求方法不允许
	CodeTooManyRequests  = 10005 // 请求过于频繁
	CodeBodyTooLarge     = 10006 // 请求体过大
)

// 认证错误 (2xxxx)
const (
	CodeUnauthorized   = 20001 // 未认证
	CodeInvalidToken   = 20002 // Token 无效
	CodeTokenExpired   = 20003 // Token 已过期
	CodePermissionDeny = 20004 // 权限不足
)

// 用户模块错误 (11xxx)
const (
	CodeUserNotFound = 11001 // 用户不存在
)

// 好友模块错误 (12xxx)
const (
	CodeAlreadyFriend     = 12001 // 已经是好友
	CodeFriendRequestSent = 12002 // 好友申请已发送
	CodeNotFriend         = 12003 // 不存在该好友关系
	CodeIsBlacklist       = 12004 // 已经是黑名单
	CodeSelfRequest       = 12005 // 不能添加自己
)

// 消息模块错误 (13xxx)
const (
	CodeMessageNotFound       = 13001 // 消息不存在
	CodeMessageSendFail       = 13002 // 消息发送失败
	CodeMessageTypeNotSupport = 13003 // 消息类型不支持
	CodeConversationNotFound  = 13004 // 会话不存在
	CodeInvalidTarget         = 13005 // 接收方无效
	CodeEmptyContent          = 13006 // 消息内容为空
	CodeContentTooLong        = 13007 // 消息内容过长
)

// 群组模块错误 (14xxx)
const (
	CodeGroupNotFound  = 14001 // 群组不存在
	CodeNotGroupMember = 14002 // 不是群成员
	CodeNoPermission   = 14003 // 没有权限
	CodeGroupFull      = 14004 // 群成员已满
)

// 计划模块错误 (15xxx)
const (
	CodePlanNotFound  = 15001 // 计划不存在
	CodePlanInvalid   = 15002 // 计划参数不合法
	CodePlanNotActive = 15003 // 计划不在进行中
)

// 服务端错误 (3xxxx)
const (
	CodeInternalError      = 30001 // 服务器内部错误
	CodeServiceUnavailable = 30002 // 服务暂不可用
	CodeTimeoutError       = 30003 // 请求超时
)

// 错误消息映射
var CodeMessage = map[int32]string{
	CodeSuccess: "success",

	// 客户端错误
	CodeParamError:       "参数验证失败",
	CodeBodyError:        "请求体格式错误",
	CodeResourceNotFound: "资源不存在",
	CodeMethodNotAllowed: "请求方法不允许",
	CodeTooManyRequests:  "请求过于频繁",
	CodeBodyTooLarge:     "请求体过大",

	// 认证错误
	CodeUnauthorized:   "未认证",
	CodeInvalidToken:   "Token 无效",
	CodeTokenExpired:   "Token 已过期",
	CodePermissionDeny: "权限不足",

	// 用户模块
	CodeUserNotFound: "用户不存在",

	// 好友模块
	CodeAlreadyFriend:     "已经是好友",
	CodeFriendRequestSent: "好友申请已发送",
	CodeNotFriend:         "不存在该好友关系",
	CodeIsBlacklist:       "已经是黑名单",
	CodeSelfRequest:       "不能添加自己为好友",

	// 消息模块
	CodeMessageNotFound:       "消息不存在",
	CodeMessageSendFail:       "消息发送失败",
	CodeMessageTypeNotSupport: "消息类型不支持",
	CodeConversationNotFound:  "会话不存在",
	CodeInvalidTarget:         "接收方无效",
	CodeEmptyContent:          "消息内容不能为空",
	CodeContentTooLong:        "消息内容过长",

	// 群组模块
	CodeGroupNotFound:  "群组不存在",
	CodeNotGroupMember: "不是群成员",
	CodeNoPermission:   "没有权限",
	CodeGroupFull:      "群成员已满",

	// 计划模块
	CodePlanNotFound:  "计划不存在",
	CodePlanInvalid:   "计划参数不合法",
	CodePlanNotActive: "计划不在进行中",

	// 服务端错误
	CodeInternalError:      "服务器内部错误",
	CodeServiceUnavailable: "服务暂不可用",
	CodeTimeoutError:       "请求超时",
}

// GetMessage 根据错误码获取错误消息
func GetMessage(code int32) string {
	if msg, ok := CodeMessage[code]; ok {
		return msg
	}
	return "未知错误"
}
