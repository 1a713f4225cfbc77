package handlers

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/i18n"
)

const (
	maxAvatarSizeBytes      = 5 * 1024 * 1024
	maxCertificateSizeBytes = 10 * 1024 * 1024
	maxVideoSizeBytes       = 100 * 1024 * 1024
)

var (
	imageExtensions       = []string{".jpg", ".jpeg", ".png", ".webp"}
	certificateExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".pdf"}
	videoExtensions       = []string{".mp4", ".mov", ".webm", ".m4v"}
)

type uploadRule struct {
	field      string
	maxBytes   int64
	extensions []string
}

// openUpload checks the multipart file against rule. When ok is false the
// 400 response has been written and err is what the handler should return.
func openUpload(c *fiber.Ctx, rule uploadRule) (file multipart.File, filename string, ok bool, err error) {
	header, err := c.FormFile(rule.field)
	if err != nil || header.Size <= 0 {
		return nil, "", false, errorResponse(c, fiber.StatusBadRequest, i18n.FileRequired)
	}
	if header.Size > rule.maxBytes {
		return nil, "", false, errorResponse(c, fiber.StatusBadRequest, i18n.FileTooLarge)
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, e := range rule.extensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, "", false, errorResponse(c, fiber.StatusBadRequest, i18n.FileType)
	}

	file, err = header.Open()
	if err != nil {
		return nil, "", false, internalError(c, "open upload", err)
	}
	return file, header.Filename, true, nil
}
