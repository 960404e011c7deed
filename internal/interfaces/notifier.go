package interfaces

import "context"

// EmailMessage 一封纯文本邮件
type EmailMessage struct {
	From    string
	To      []string
	Subject string
	Text    string
}

// Notifier 外部通知出口（事务型邮件等），不在内部重试
type Notifier interface {
	// Name 通知渠道名称，用于日志与返回状态
	Name() string
	// Send 发送邮件，返回渠道侧消息ID
	Send(ctx context.Context, msg *EmailMessage) (messageID string, err error)
}
