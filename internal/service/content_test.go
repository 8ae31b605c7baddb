package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindvault/internal/domain"
	"mindvault/internal/storage/memory"
)

func TestContentCreateKeepsClientEmbedding(t *testing.T) {
	store := memory.NewItemStore()
	svc := NewContentService(store, &stubEmbedder{vec: []float64{9, 9}}, discardLogger())

	item, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		Title:     "go talk",
		Link:      "https://a",
		Type:      domain.TypeYouTube,
		Embedding: []float64{1, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, item.Embedding, "client-supplied vector is stored as-is")
}

func TestContentCreateEmbedsServerSide(t *testing.T) {
	store := memory.NewItemStore()
	svc := NewContentService(store, &stubEmbedder{vec: []float64{0.5, 0.5}}, discardLogger())

	userID := uuid.New()
	item, err := svc.Create(context.Background(), userID, CreateInput{
		Title:       "pipelines",
		Link:        "https://a",
		Type:        domain.TypeYouTube,
		Description: "concurrency talk",
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, item.Embedding)

	listed, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestContentCreateSurvivesEmbedFailure(t *testing.T) {
	store := memory.NewItemStore()
	svc := NewContentService(store, &stubEmbedder{err: errors.New("model down")}, discardLogger())

	userID := uuid.New()
	item, err := svc.Create(context.Background(), userID, CreateInput{
		Title: "note", Link: "#", Type: domain.TypeNote,
	})
	require.NoError(t, err, "creation must never be blocked by embedding failure")
	require.NotNil(t, item)
	for _, v := range item.Embedding {
		assert.Zero(t, v)
	}

	// the zero-vector item is stored but unreachable by semantic search
	candidates, err := store.Candidates(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	search := NewSearchService(store, &stubEmbedder{}, 0.25, 10, discardLogger())
	results, err := search.SearchVector(context.Background(), userID, []float64{1, 1})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestContentDelete(t *testing.T) {
	store := memory.NewItemStore()
	svc := NewContentService(store, &stubEmbedder{vec: []float64{1}}, discardLogger())

	userID := uuid.New()
	item, err := svc.Create(context.Background(), userID, CreateInput{Title: "n", Link: "#", Type: domain.TypeNote})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), userID, item.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), userID, item.ID), domain.ErrNotFound)
}
