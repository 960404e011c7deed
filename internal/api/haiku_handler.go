package api

import (
	"net/http"
	"regexp"
	"strconv"

	"DailyHaiku/internal/repository"
	"DailyHaiku/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// HaikuHandler 每日俳句查询接口
type HaikuHandler struct {
	daily   *service.DailyService
	history *service.HistoryService
	preview *PreviewRenderer
	repo    repository.HaikuRepository
	logger  *logrus.Logger
}

// NewHaikuHandler 创建 HaikuHandler
func NewHaikuHandler(daily *service.DailyService, history *service.HistoryService, preview *PreviewRenderer, repo repository.HaikuRepository, logger *logrus.Logger) *HaikuHandler {
	return &HaikuHandler{
		daily:   daily,
		history: history,
		preview: preview,
		repo:    repo,
		logger:  logger,
	}
}

// DailyHaiku 今日俳句（不存在则分配）GET /daily_haiku
func (h *HaikuHandler) DailyHaiku(c *gin.Context) {
	view, err := h.daily.GetOrCreate(c.Request.Context(), h.daily.Today())
	if err != nil {
		writeError(c, h.logger, "DailyHaiku", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Today 只读查询今日俳句 GET /haiku/today
func (h *HaikuHandler) Today(c *gin.Context) {
	view, err := h.daily.GetToday(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "Today", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ByDate JSON 查询 GET /api/haiku/:date
func (h *HaikuHandler) ByDate(c *gin.Context) {
	date := c.Param("date")
	if !datePattern.MatchString(date) {
		c.JSON(http.StatusNotFound, gin.H{"error": "haiku not found"})
		return
	}
	view, err := h.daily.GetByDate(c.Request.Context(), date)
	if err != nil {
		writeError(c, h.logger, "ByDate", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Preview 社交平台链接预览页（og 标签 + 跳转）GET /haiku/:date
func (h *HaikuHandler) Preview(c *gin.Context) {
	date := c.Param("date")
	if !datePattern.MatchString(date) {
		c.JSON(http.StatusNotFound, gin.H{"error": "haiku not found"})
		return
	}
	view, err := h.daily.GetByDate(c.Request.Context(), date)
	if err != nil {
		writeError(c, h.logger, "Preview", err)
		return
	}
	page, err := h.preview.Render(view, date)
	if err != nil {
		writeError(c, h.logger, "Preview", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// History 历史分页 GET /api/haiku/history?page=1&limit=20
func (h *HaikuHandler) History(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be an integer"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultHistoryLimit)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	result, err := h.history.List(c.Request.Context(), page, limit)
	if err != nil {
		writeError(c, h.logger, "History", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Health 存储连通性 GET /healthz
func (h *HaikuHandler) Health(c *gin.Context) {
	if err := h.repo.Ping(c.Request.Context()); err != nil {
		h.logger.WithError(err).Warn("healthz: store unreachable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
