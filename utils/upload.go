package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"campusboard/config"
)

// Attachment size limit: 50MB
const maxAttachmentSize = 50 * 1024 * 1024

// AllowedAttachment reports whether the filename carries an extension from
// the configured allow-list.
func AllowedAttachment(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	for _, allowed := range config.Get().AllowedUploadExts {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// SaveAttachment stores an uploaded file under the configured upload
// directory and returns its path relative to that directory. Files with a
// disallowed extension are silently dropped: the returned path is empty and
// err is nil, so the caller can proceed without the attachment.
//
// Writes are fire-and-forget: a file left on disk after a later request
// failure is tolerated and never referenced by any post.
func SaveAttachment(header *multipart.FileHeader, userID uint) (string, error) {
	if header == nil || !AllowedAttachment(header.Filename) {
		return "", nil
	}
	if header.Size > maxAttachmentSize {
		return "", fmt.Errorf("file size exceeds %d bytes", maxAttachmentSize)
	}

	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	now := time.Now()
	relDir := filepath.Join(now.Format("2006"), now.Format("01"), now.Format("02"))
	baseDir := filepath.Join(config.Get().UploadDir, relDir)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	// Sanitize filename and ensure uniqueness
	fname := filepath.Base(header.Filename)
	safeName := fmt.Sprintf("%d_%d_%s", now.UnixNano(), userID, fname)
	dstPath := filepath.Join(baseDir, safeName)

	out, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	lr := &io.LimitedReader{R: src, N: maxAttachmentSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		return "", err
	}
	if written > maxAttachmentSize {
		_ = out.Close()
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("file size exceeds %d bytes", maxAttachmentSize)
	}

	return filepath.ToSlash(filepath.Join(relDir, safeName)), nil
}
