package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"hardwarebot/internal/extract"
	"hardwarebot/internal/models"
	"hardwarebot/internal/requestctx"
	"hardwarebot/internal/storage"
)

const (
	// MaxContentChars caps the extracted text forwarded per file.
	MaxContentChars = 3000
	analyzePrefix   = "Analyze this file:\n"
)

// Relay is the remote model as seen by the service.
type Relay interface {
	Ask(ctx context.Context, prompt string) (string, error)
	Reply(ctx context.Context, message string) string
}

// Extractor produces text for a stored upload.
type Extractor interface {
	Extract(ctx context.Context, src extract.Source) (string, error)
}

// Service relays chat messages and uploaded files to the model.
type Service struct {
	relay     Relay
	store     *storage.Store
	extractor Extractor
	logger    *slog.Logger
}

// NewService builds a new assistant service.
func NewService(relay Relay, store *storage.Store, extractor Extractor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		relay:     relay,
		store:     store,
		extractor: extractor,
		logger:    logger,
	}
}

// Chat answers a single message; failures yield the fallback reply.
func (s *Service) Chat(ctx context.Context, message string) string {
	s.logger.Info("chat message received", "request_id", requestctx.ID(ctx), "chars", len([]rune(message)))
	return s.relay.Reply(ctx, message)
}

// AnalyzeFiles stores each file, extracts its text and asks the model about
// it, in submission order. The first error aborts the batch; files saved
// before it stay on disk.
func (s *Service) AnalyzeFiles(ctx context.Context, files []models.UploadedFile) (*models.UploadResult, error) {
	result := &models.UploadResult{
		Files:   make([]string, 0, len(files)),
		Replies: make([]string, 0, len(files)),
	}
	for _, f := range files {
		stored, err := s.save(f)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, stored.Name)
		s.logger.Debug("file stored", "request_id", requestctx.ID(ctx), "name", stored.Name, "bytes", stored.Size)

		content, err := s.extractor.Extract(ctx, extract.Source{Name: stored.Name, Path: stored.StoredPath})
		if err != nil {
			return nil, err
		}
		prompt := analyzePrefix + extract.Truncate(content, MaxContentChars)
		reply, err := s.relay.Ask(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("analyze %s: %w", stored.Name, err)
		}
		result.Replies = append(result.Replies, reply)
	}
	s.logger.Info("files uploaded", "request_id", requestctx.ID(ctx), "files", result.Files)
	return result, nil
}

func (s *Service) save(f models.UploadedFile) (*models.StoredFile, error) {
	if f.Open == nil {
		return nil, &models.FileReadError{Name: f.Name, Err: fmt.Errorf("no content")}
	}
	src, err := f.Open()
	if err != nil {
		return nil, &models.FileReadError{Name: f.Name, Err: err}
	}
	defer src.Close()
	stored, err := s.store.Save(f.Name, src)
	if err != nil {
		return nil, &models.FileReadError{Name: f.Name, Err: err}
	}
	return stored, nil
}
