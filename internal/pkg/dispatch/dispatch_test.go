package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FelixBrandt/StackDroid/internal/pkg/catalog"
)

func TestEveryCatalogProductHasAHandler(t *testing.T) {
	t.Parallel()

	for _, p := range catalog.Active() {
		assert.True(t, Registered(p.ID), "no handler for %s", p.ID)
	}
}

func TestExecuteUnknownProduct(t *testing.T) {
	t.Parallel()

	_, err := Execute(context.Background(), "does-not-exist", Params{})
	assert.ErrorIs(t, err, ErrUnknownProduct)
}

func TestExecuteLinkedInLeadGen(t *testing.T) {
	t.Parallel()

	result, err := Execute(context.Background(), "linkedin-lead-gen", Params{
		"target_industry": "fintech",
		"max_leads":       float64(2), // JSON numbers arrive as float64
	})
	require.NoError(t, err)

	leads, ok := result.([]lead)
	require.True(t, ok)
	assert.Len(t, leads, 2)
	for _, l := range leads {
		assert.NotEmpty(t, l.PersonalizedMessage)
		assert.Contains(t, l.PersonalizedMessage, "fintech")
		assert.Positive(t, l.Score)
	}
}

func TestExecuteSocialOrchestrator(t *testing.T) {
	t.Parallel()

	result, err := Execute(context.Background(), "social-orchestrator", Params{"topic": "launch week"})
	require.NoError(t, err)

	posts, ok := result.([]scheduledPost)
	require.True(t, ok)
	assert.Len(t, posts, 4)
	for _, p := range posts {
		assert.NotEmpty(t, p.Platform)
		assert.Contains(t, p.Content, "launch week")
	}
}

func TestExecutePlaceholderShape(t *testing.T) {
	t.Parallel()

	result, err := Execute(context.Background(), "market-intelligence", Params{})
	require.NoError(t, err)

	payload, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, payload["message"])
	assert.NotNil(t, payload["data"])
}

func TestParamDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fallback", stringParam(Params{}, "missing", "fallback"))
	assert.Equal(t, "set", stringParam(Params{"k": "set"}, "k", "fallback"))
	assert.Equal(t, 7, intParam(Params{}, "missing", 7))
	assert.Equal(t, 3, intParam(Params{"k": float64(3)}, "k", 7))
	assert.Equal(t, 4, intParam(Params{"k": 4}, "k", 7))
}
