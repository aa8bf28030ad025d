// attachment_handler.go
package email

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"QueueInsight/src/storage"
)

// ExportAttachmentHandler saves the wait-time export attached to an ops
// mail into the drop directory, once per mail UID.
type ExportAttachmentHandler struct {
	TargetSubject string
	DataDir       string
	processedUIDs map[uint32]bool
	mu            sync.RWMutex
}

func NewExportAttachmentHandler(subject, dataDir string) *ExportAttachmentHandler {
	return &ExportAttachmentHandler{
		TargetSubject: subject,
		DataDir:       dataDir,
		processedUIDs: make(map[uint32]bool),
	}
}

func (h *ExportAttachmentHandler) isProcessed(uid uint32) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.processedUIDs[uid]
}

func (h *ExportAttachmentHandler) markAsProcessed(uid uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.processedUIDs[uid] = true
}

func isExportAttachment(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt", ".xlsx":
		return true
	}
	return false
}

// Handle saves the export attachments of one mail and returns the saved
// paths. Mails already handled, or with a non-matching subject, are
// skipped without error.
func (h *ExportAttachmentHandler) Handle(email *Email, logger *storage.Logger) ([]string, error) {
	if email == nil || h.isProcessed(email.UID) {
		return nil, nil
	}

	if !strings.Contains(email.Subject, h.TargetSubject) {
		logger.Debug("skipping mail with non-matching subject: " + email.Subject)
		return nil, nil
	}

	logger.Info(fmt.Sprintf("processing mail %q from %s (%s)",
		email.Subject, email.From, email.Date.Format("2006-01-02 15:04:05")))

	if err := os.MkdirAll(h.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	var saved []string
	for _, attachment := range email.Attachments {
		if !isExportAttachment(attachment.Filename) {
			continue
		}

		filePath := filepath.Join(h.DataDir, filepath.Base(attachment.Filename))
		if err := os.WriteFile(filePath, attachment.Content, 0644); err != nil {
			return saved, fmt.Errorf("save attachment: %w", err)
		}

		logger.Info("export saved to " + filePath)
		saved = append(saved, filePath)
	}

	if len(saved) > 0 {
		h.markAsProcessed(email.UID)
	}

	return saved, nil
}
