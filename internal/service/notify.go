package service

import (
	"context"

	"DailyHaiku/internal/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LogNotifier 占位实现：只写日志不真正发送（未配置邮件 API key 时使用）
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Send(_ context.Context, msg *interfaces.EmailMessage) (string, error) {
	id := "log-" + uuid.NewString()
	n.logger.WithField("id", id).
		WithField("to", msg.To).
		WithField("subject", msg.Subject).
		Info("邮件未配置，仅记录日志")
	return id, nil
}
