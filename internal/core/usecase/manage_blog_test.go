package usecase

import (
	"context"
	"errors"
	"testing"

	"offplan-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBlogPost_DerivesSlugAndFiresHook(t *testing.T) {
	repo := &fakeBlogRepo{}
	events := &fakeEvents{}
	uc := NewCreateBlogPostUseCase(repo, events)

	post, err := uc.Execute(context.Background(), domain.BlogPost{Title: "  Top 10 Off-Plan Projects in Dubai  "})
	require.NoError(t, err)

	assert.Equal(t, "top-10-off-plan-projects-in-dubai", post.Slug)
	assert.Equal(t, int64(1), post.ID)
	assert.False(t, post.CreatedAt.IsZero())
	assert.Equal(t, []string{post.Slug}, events.posts)

	found, err := NewGetBlogPostUseCase(repo).Execute(context.Background(), post.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Top 10 Off-Plan Projects in Dubai", found.Title)
}

func TestCreateBlogPost_HookFailureDoesNotFail(t *testing.T) {
	events := &fakeEvents{err: errors.New("broker down")}
	uc := NewCreateBlogPostUseCase(&fakeBlogRepo{}, events)

	post, err := uc.Execute(context.Background(), domain.BlogPost{Title: "Hello", Slug: "custom"})
	require.NoError(t, err)
	assert.Equal(t, "custom", post.Slug)
}

func TestCreateBlogPost_Validation(t *testing.T) {
	repo := &fakeBlogRepo{}
	uc := NewCreateBlogPostUseCase(repo, nil)

	_, err := uc.Execute(context.Background(), domain.BlogPost{Title: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Execute(context.Background(), domain.BlogPost{Title: "!!!"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Execute(context.Background(), domain.BlogPost{Title: "Same"})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), domain.BlogPost{Title: "same"})
	assert.ErrorIs(t, err, domain.ErrValidation, "duplicate slug")

	_, err = NewGetBlogPostUseCase(repo).Execute(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
