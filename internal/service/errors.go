package service

import "errors"

// 错误分类，api 层用 errors.Is 映射为 HTTP 状态码
var (
	// ErrInvalidInput 客户端参数错误（日期格式、分页参数）
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound 请求的日期没有分配记录
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized cron 密钥不匹配
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDependency 存储或邮件服务不可用
	ErrDependency = errors.New("dependency failure")
	// ErrInvariant 数据不一致（分配记录指向不存在的俳句等），必须大声失败
	ErrInvariant = errors.New("internal invariant violation")
)
