package api

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"hardwarebot/internal/models"
	"hardwarebot/internal/requestctx"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	uploadFieldName    = "file"
	uploadFailedMsg    = "Upload failed."
	invalidRequestMsg  = "Invalid request"
	maxMultipartMemory = 32 << 20
)

// Assistant is the service behind the chat and upload endpoints.
type Assistant interface {
	Chat(ctx context.Context, message string) string
	AnalyzeFiles(ctx context.Context, files []models.UploadedFile) (*models.UploadResult, error)
}

// Handler wires HTTP routes to the assistant service.
type Handler struct {
	assistant Assistant
	logger    *slog.Logger
}

// NewHandler constructs a Handler instance.
func NewHandler(service Assistant, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{assistant: service, logger: logger}
}

// RegisterRoutes attaches all HTTP routes and middleware to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID(), h.accessLog(), gin.Recovery())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))
	router.MaxMultipartMemory = maxMultipartMemory

	router.GET("/", h.chatPage)
	router.POST("/chat/", h.chatResponse)
	router.Any("/upload/", h.uploadFiles)
}

func (h *Handler) chatPage(c *gin.Context) {
	c.HTML(http.StatusOK, "chat.html", gin.H{
		"ChatURL":   "/chat/",
		"UploadURL": "/upload/",
	})
}

func (h *Handler) chatResponse(c *gin.Context) {
	ctx := c.Request.Context()
	var req models.IncomingMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("decode chat request",
			"request_id", requestctx.ID(ctx),
			"err", errors.Join(models.ErrUnsupportedInput, err),
		)
		c.JSON(http.StatusOK, models.ChatReply{Reply: models.FallbackReply})
		return
	}
	c.JSON(http.StatusOK, models.ChatReply{Reply: h.assistant.Chat(ctx, req.Message)})
}

func (h *Handler) uploadFiles(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": invalidRequestMsg})
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		h.logger.Warn("parse upload form",
			"request_id", requestctx.ID(ctx),
			"err", errors.Join(models.ErrUnsupportedInput, err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": invalidRequestMsg})
		return
	}
	files := uploadedFiles(form.File[uploadFieldName])

	result, err := h.assistant.AnalyzeFiles(ctx, files)
	if err != nil {
		h.logger.Error("upload failed", "request_id", requestctx.ID(ctx), "err", err)
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": uploadFailedMsg})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"files":   result.Files,
		"replies": result.Replies,
	})
}

func uploadedFiles(headers []*multipart.FileHeader) []models.UploadedFile {
	files := make([]models.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, models.UploadedFile{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return files
}
