package services

import (
	"context"
	"fmt"
	"sync"

	pkgerrors "github.com/vael-labs/vael-backend/internal/pkg/errors"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
	"github.com/vael-labs/vael-backend/internal/platform/openai"
)

// maxEmbedChars caps the text sent to the embedding model.
const maxEmbedChars = 8000

// Embedder turns a piece of text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingService builds its provider client on first use and serializes
// inference calls behind a single mutex.
type EmbeddingService struct {
	mu      sync.Mutex
	client  openai.Client
	factory func() (openai.Client, error)
	log     *logger.Logger
}

func NewEmbeddingService(factory func() (openai.Client, error), log *logger.Logger) *EmbeddingService {
	return &EmbeddingService{factory: factory, log: log}
}

func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbedChars {
		text = text[:maxEmbedChars]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		c, err := s.factory()
		if err != nil {
			return nil, fmt.Errorf("%w: building embedding client: %v", pkgerrors.ErrUpstreamUnavailable, err)
		}
		s.client = c
	}

	vectors, err := s.client.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrUpstreamUnavailable, err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("%w: provider returned no vector", pkgerrors.ErrUpstreamUnavailable)
	}
	return vectors[0], nil
}
