package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

const (
	// MaxImageSize 上传图片大小上限
	MaxImageSize = 5 << 20
	// imageNotConfigured 图片存储未配置时的提示
	imageNotConfigured = "Image storage not configured on server"
)

// allowedImageTypes 允许上传的图片类型
var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// ImageStore 图片存储
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType, extension string) (string, error)
}

// UploadController 图片上传，store 为 nil 表示未配置
type UploadController struct {
	store ImageStore
}

// NewUploadController 创建上传控制器
func NewUploadController(store ImageStore) *UploadController {
	return &UploadController{store: store}
}

// UploadImage 上传 multipart 字段 file，返回公开地址
func (uc *UploadController) UploadImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		utils.ErrorResponse(c, "No file provided", http.StatusBadRequest)
		return
	}
	if header.Size > MaxImageSize {
		utils.ErrorResponse(c, "File too large. Max 5MB.", http.StatusBadRequest)
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if len(data) > MaxImageSize {
		utils.ErrorResponse(c, "File too large. Max 5MB.", http.StatusBadRequest)
		return
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		utils.ErrorResponse(c, "Invalid file type. Use JPEG, PNG, WebP or GIF.", http.StatusBadRequest)
		return
	}
	if uc.store == nil {
		utils.HandleError(c, utils.CreateServiceUnavailableError(imageNotConfigured))
		return
	}

	url, err := uc.store.Upload(c.Request.Context(), data, mtype.String(), mtype.Extension())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Logger.Info().Str("url", url).Int("size", len(data)).Msg("图片上传成功")
	c.JSON(http.StatusOK, gin.H{"url": url})
}
