package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"DailyHaiku/internal/interfaces"
	"DailyHaiku/internal/metrics"

	"github.com/sirupsen/logrus"
)

// DigestConfig 每日邮件参数
type DigestConfig struct {
	From          string
	To            []string
	PublicBaseURL string // 邮件正文中的分享链接域名
	CronSecret    string
}

// DispatchResult 推送结果
type DispatchResult struct {
	Status    string `json:"status"`
	Date      string `json:"date"`
	HaikuID   uint64 `json:"haiku_id"`
	Provider  string `json:"provider"`
	MessageID string `json:"message_id,omitempty"`
}

// DigestService 每日俳句邮件推送
type DigestService struct {
	daily    *DailyService
	notifier interfaces.Notifier
	cfg      DigestConfig
	metrics  *metrics.Metrics
	logger   *logrus.Logger
}

// NewDigestService 创建 DigestService
func NewDigestService(daily *DailyService, notifier interfaces.Notifier, cfg DigestConfig, m *metrics.Metrics, logger *logrus.Logger) *DigestService {
	if m == nil {
		m = metrics.New()
	}
	return &DigestService{
		daily:    daily,
		notifier: notifier,
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
	}
}

// Authorize 校验调用方携带的 cron 密钥；服务端未配置密钥时一律拒绝
func (s *DigestService) Authorize(credential string) error {
	if s.cfg.CronSecret == "" || subtle.ConstantTimeCompare([]byte(credential), []byte(s.cfg.CronSecret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// SendDaily 取（必要时分配）今天的俳句并发送邮件，失败不重试
func (s *DigestService) SendDaily(ctx context.Context) (*DispatchResult, error) {
	today := s.daily.Today()
	view, err := s.daily.GetOrCreate(ctx, today)
	if err != nil {
		return nil, err
	}

	date := today.Format(time.DateOnly)
	msg := &interfaces.EmailMessage{
		From:    s.cfg.From,
		To:      s.cfg.To,
		Subject: Subject(view, date),
		Text:    Body(view, date, s.cfg.PublicBaseURL),
	}
	log := s.logger.WithField("date", date).WithField("provider", s.notifier.Name())

	id, err := s.notifier.Send(ctx, msg)
	if err != nil {
		s.metrics.Dispatches.WithLabelValues(metrics.ResultFailed).Inc()
		log.WithError(err).Error("每日俳句邮件发送失败")
		return nil, fmt.Errorf("%w: 邮件发送失败: %w", ErrDependency, err)
	}
	s.metrics.Dispatches.WithLabelValues(metrics.ResultSent).Inc()
	log.WithField("message_id", id).Info("每日俳句邮件已发送")

	return &DispatchResult{
		Status:    metrics.ResultSent,
		Date:      date,
		HaikuID:   view.ID,
		Provider:  s.notifier.Name(),
		MessageID: id,
	}, nil
}

// Subject 邮件标题
func Subject(v *PoemView, date string) string {
	return fmt.Sprintf("Haiku del día — %s: %s", date, v.Title)
}

// Body 纯文本正文：正文、作者、季节与分享链接
func Body(v *PoemView, date, publicBaseURL string) string {
	var b strings.Builder
	b.WriteString(v.Content)
	b.WriteString("\n\n— ")
	b.WriteString(v.Author)
	b.WriteString("\nEstación: ")
	b.WriteString(v.Season)
	if publicBaseURL != "" && !v.Closing {
		fmt.Fprintf(&b, "\n\n%s/haiku/%s", strings.TrimSuffix(publicBaseURL, "/"), date)
	}
	b.WriteString("\n")
	return b.String()
}
