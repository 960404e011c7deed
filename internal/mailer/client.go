package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"DailyHaiku/internal/interfaces"
	"DailyHaiku/internal/utils/httpclient"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL Resend 生产环境
const DefaultBaseURL = "https://api.resend.com"

// ErrNotConfigured 缺少 API key 或收件人
var ErrNotConfigured = errors.New("mailer not configured")

// Client 事务型邮件 API 客户端（Resend 协议）
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// Config 邮件客户端配置
type Config struct {
	BaseURL string
	APIKey  string
	Timeout int // 秒
	Proxy   string
}

// NewClient 创建邮件客户端
func NewClient(cfg Config, logger *logrus.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpclient.NewHTTPClient(httpclient.Options{Timeout: cfg.Timeout, Proxy: cfg.Proxy}, logger),
		logger:     logger,
	}
}

// sendEmailRequest POST /emails 请求体
type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// sendEmailResponse POST /emails 响应
type sendEmailResponse struct {
	ID         string `json:"id"`
	StatusCode int    `json:"statusCode,omitempty"`
	Name       string `json:"name,omitempty"`
	Message    string `json:"message,omitempty"`
}

// StatusError 邮件 API 返回非 2xx
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("邮件 API 错误 %d: %s", e.StatusCode, e.Message)
}

// Name 实现 interfaces.Notifier
func (c *Client) Name() string { return "resend" }

// Send 发送一封纯文本邮件，失败不重试，由调用方决定
func (c *Client) Send(ctx context.Context, msg *interfaces.EmailMessage) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: API key 为空", ErrNotConfigured)
	}
	if len(msg.To) == 0 {
		return "", fmt.Errorf("%w: 收件人为空", ErrNotConfigured)
	}

	body, err := json.Marshal(sendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("邮件 API HTTP 请求失败")
		return "", fmt.Errorf("邮件 API 请求失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var result sendEmailResponse
	_ = json.Unmarshal(respBody, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errMsg := result.Message
		if errMsg == "" {
			errMsg = strings.TrimSpace(string(respBody))
		}
		c.logger.WithField("status", resp.StatusCode).WithField("message", errMsg).Warn("邮件 API 错误")
		return "", &StatusError{StatusCode: resp.StatusCode, Message: errMsg}
	}

	c.logger.WithField("id", result.ID).WithField("to", len(msg.To)).Debug("邮件发送成功")
	return result.ID, nil
}
