package api

import (
	"net/http"

	"DailyHaiku/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CronSecretHeader 外部定时任务携带的密钥头
const CronSecretHeader = "X-Cron-Secret"

// EmailHandler 每日邮件推送接口
type EmailHandler struct {
	digest *service.DigestService
	logger *logrus.Logger
}

func NewEmailHandler(digest *service.DigestService, logger *logrus.Logger) *EmailHandler {
	return &EmailHandler{digest: digest, logger: logger}
}

// SendDaily POST /send_daily_haiku_email
func (h *EmailHandler) SendDaily(c *gin.Context) {
	if err := h.digest.Authorize(c.GetHeader(CronSecretHeader)); err != nil {
		writeError(c, h.logger, "SendDaily", err)
		return
	}
	result, err := h.digest.SendDaily(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "SendDaily", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
