package apperror

import "errors"

// 应用级错误分类。各模块用 fmt.Errorf("...: %w", Err...) 包装它们，
// handler层据此映射HTTP状态码。

var (
	// ErrValidation 表示数据录入边界的非法输入。不会触达持久化层。
	ErrValidation = errors.New("输入校验失败")

	// ErrNotAuthenticated 表示操作缺少有效会话。
	ErrNotAuthenticated = errors.New("未认证")

	// ErrNotFound 表示目标记录不存在或不属于当前用户。
	ErrNotFound = errors.New("记录不存在")

	// ErrConflict 表示唯一性冲突，例如重复注册的邮箱。
	ErrConflict = errors.New("记录已存在")

	// ErrUnavailable 表示依赖的缓存/存储暂时不可用，调用方可以稍后重试。
	ErrUnavailable = errors.New("服务暂时不可用")
)
