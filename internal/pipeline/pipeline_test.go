package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eduflow/internal/block"
	"eduflow/internal/cache"
	"eduflow/internal/extract"
	"eduflow/internal/llm"
	"eduflow/internal/prompt"
)

const fencedBlock = "```json\n" + `{
  "titre_du_bloc": "Entropy",
  "resume_conceptuel": "Entropy measures disorder.",
  "formules_cles": ["S = k_B \\ln W"],
  "analogie": "A teenager's bedroom.",
  "daily_5": ["1", "2", "3", "4", "5"],
  "quiz": []
}` + "\n```"

func newTestService(backend llm.Backend, c cache.Cache) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, "gemini", backend, extract.New(), prompt.NewAssembler(0), c, time.Hour)
}

// generatePayload returns the payload the mock backend received.
func generatePayload(t *testing.T, backend *llm.MockBackend) prompt.Payload {
	t.Helper()
	for _, call := range backend.Calls {
		if call.Method == "Generate" {
			return call.Arguments.Get(1).(prompt.Payload)
		}
	}
	t.Fatal("backend.Generate was never called")
	return prompt.Payload{}
}

func TestGenerateDirect(t *testing.T) {
	backend := new(llm.MockBackend)
	backend.On("Name").Return("mock")
	backend.On("Generate", mock.Anything, mock.Anything).Return(fencedBlock, nil).Once()

	svc := newTestService(backend, nil)
	req := prompt.Request{Sujet: "Thermodynamics", Niveau: "Intermediate", Objectif: "Exam prep"}

	got, err := svc.GenerateDirect(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "Entropy", got.TitreDuBloc)
	require.Len(t, got.Daily5, 5)
	require.Empty(t, got.Quiz)

	// The assembled prompt reaches the backend with the caller's parameters.
	payload := generatePayload(t, backend)
	require.Equal(t, prompt.SystemInstruction, payload.System)
	require.Contains(t, payload.User, "Sujet: Thermodynamics")
	backend.AssertExpectations(t)
}

func TestGenerateDirectNotConfigured(t *testing.T) {
	svc := newTestService(nil, nil)

	_, err := svc.GenerateDirect(context.Background(), prompt.Request{Sujet: "x", Niveau: "y", Objectif: "z"})

	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
	require.False(t, svc.Configured())
}

func TestGenerateDirectBackendFailure(t *testing.T) {
	backend := new(llm.MockBackend)
	backend.On("Name").Return("mock")
	backend.On("Generate", mock.Anything, mock.Anything).
		Return("", &llm.BackendError{Provider: "mock", Err: errors.New("rate limited")}).Once()

	svc := newTestService(backend, nil)

	_, err := svc.GenerateDirect(context.Background(), prompt.Request{Sujet: "x", Niveau: "y", Objectif: "z"})

	var backendErr *llm.BackendError
	require.ErrorAs(t, err, &backendErr)
}

func TestGenerateDirectMalformedResponse(t *testing.T) {
	backend := new(llm.MockBackend)
	backend.On("Name").Return("mock")
	backend.On("Generate", mock.Anything, mock.Anything).
		Return(`Sure! {"titre_du_bloc": "Entropy"}`, nil).Once()

	svc := newTestService(backend, nil)

	_, err := svc.GenerateDirect(context.Background(), prompt.Request{Sujet: "x", Niveau: "y", Objectif: "z"})

	var malformed *block.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	require.True(t, strings.HasPrefix(malformed.Preview, "Sure! {"))
}

func TestGenerateDirectCacheHit(t *testing.T) {
	backend := new(llm.MockBackend)
	backend.On("Name").Return("mock")

	cached := &block.LearningBlock{
		TitreDuBloc:  "Cached",
		FormulesCles: []string{},
		Daily5:       []string{"1", "2", "3", "4", "5"},
		Quiz:         []block.QuizItem{},
	}
	c := new(cache.MockCache)
	c.On("GetBlock", mock.Anything, mock.Anything).Return(cached, nil).Once()

	svc := newTestService(backend, c)

	got, err := svc.GenerateDirect(context.Background(), prompt.Request{Sujet: "x", Niveau: "y", Objectif: "z"})
	require.NoError(t, err)
	require.Equal(t, "Cached", got.TitreDuBloc)

	backend.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	c.AssertExpectations(t)
}

func TestGenerateDirectCacheMissStoresBlock(t *testing.T) {
	backend := new(llm.MockBackend)
	backend.On("Name").Return("mock")
	backend.On("Generate", mock.Anything, mock.Anything).Return(fencedBlock, nil).Once()

	c := new(cache.MockCache)
	c.On("GetBlock", mock.Anything, mock.Anything).Return(nil, nil).Once()
	c.On("SetBlock", mock.Anything, mock.Anything, mock.Anything, time.Hour).Return(nil).Once()

	svc := newTestService(backend, c)

	_, err := svc.GenerateDirect(context.Background(), prompt.Request{Sujet: "x", Niveau: "y", Objectif: "z"})
	require.NoError(t, err)
	c.AssertExpectations(t)
}

func TestGenerateFromUpload(t *testing.T) {
	backend := new(llm.MockBackend)
	backend.On("Name").Return("mock")
	backend.On("Generate", mock.Anything, mock.Anything).Return(fencedBlock, nil).Once()

	svc := newTestService(backend, nil)

	got, err := svc.GenerateFromUpload(context.Background(),
		[]byte("Entropy always increases in an isolated system."), "notes.txt", prompt.Request{})
	require.NoError(t, err)
	require.Equal(t, "Entropy", got.TitreDuBloc)

	// Empty request fields got the upload defaults, and the document text is
	// embedded as context.
	payload := generatePayload(t, backend)
	require.Contains(t, payload.User, "Contexte extrait du document")
	require.Contains(t, payload.User, "Entropy always increases")
	require.Contains(t, payload.User, "Sujet: "+prompt.DefaultSujet)
	require.Contains(t, payload.User, "Niveau: "+prompt.DefaultNiveau)
}

func TestGenerateFromUploadEmptyDocument(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"empty file", nil},
		{"whitespace only", []byte(" \n\t  \n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := new(llm.MockBackend)
			backend.On("Name").Return("mock")

			svc := newTestService(backend, nil)

			_, err := svc.GenerateFromUpload(context.Background(), tt.content, "empty.txt", prompt.Request{})
			require.ErrorIs(t, err, ErrEmptyDocument)

			// The backend must never be invoked for an empty document.
			backend.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		})
	}
}

func TestGenerateFromUploadExtractionFailure(t *testing.T) {
	backend := new(llm.MockBackend)
	backend.On("Name").Return("mock")

	svc := newTestService(backend, nil)

	_, err := svc.GenerateFromUpload(context.Background(), []byte{0xff, 0xfe}, "data.txt", prompt.Request{})

	var extractionErr *extract.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	backend.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestGenerateFromUploadNotConfigured(t *testing.T) {
	svc := newTestService(nil, nil)

	_, err := svc.GenerateFromUpload(context.Background(), []byte("text"), "notes.txt", prompt.Request{})

	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
}
