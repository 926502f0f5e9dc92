package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"docrecon/internal/domain"
	"docrecon/internal/port"
)

type recordingStorage struct {
	uploads []string
}

func (r *recordingStorage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	r.uploads = append(r.uploads, input.Key)
	return &port.UploadOutput{}, nil
}

func (r *recordingStorage) Delete(context.Context, string) error { return nil }

func (r *recordingStorage) GetPresignedURL(context.Context, string, time.Duration) (string, error) {
	return "", nil
}

func TestComparisonService_Archive_RunWithoutResultIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	storage := &recordingStorage{}
	svc := &comparisonService{
		deps:     ComparisonDeps{Storage: storage},
		settings: ComparisonSettings{ArchiveEnabled: true, ArchivePrefix: "comparisons"},
		logger:   zap.New(core),
	}
	run := &domain.ComparisonRun{ID: uuid.New()}

	svc.archive(context.Background(), run)

	assert.Empty(t, storage.uploads)
	assert.Empty(t, run.ArchivePrefix)

	entries := logs.FilterMessage("archiving comparison reports failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, run.ID.String(), fields["run_id"])
	assert.Contains(t, fields["error"], "building report input")
}

func TestComparisonService_Archive_DisabledDoesNothing(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	storage := &recordingStorage{}
	svc := &comparisonService{
		deps:   ComparisonDeps{Storage: storage},
		logger: zap.New(core),
	}

	svc.archive(context.Background(), &domain.ComparisonRun{ID: uuid.New()})

	assert.Empty(t, storage.uploads)
	assert.Zero(t, logs.Len())
}
