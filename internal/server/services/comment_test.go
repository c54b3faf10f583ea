package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment_MissingPostFailsBeforeInsert(t *testing.T) {
	f := newContentFixture(t)

	_, err := f.comments.CreateComment(context.Background(), aliceID, ghostID, "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorNotFound), "got %v", err)
	assert.Equal(t, 0, f.store.commentCreates)
}

func TestCreateComment_MissingAuthorIsBadRequest(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	p, err := f.posts.CreatePost(ctx, aliceID, "t", "c", "b")
	require.NoError(t, err)

	_, err = f.comments.CreateComment(ctx, ghostID, p.ID, "hello")
	assert.True(t, errors.Is(err, common.ErrBadRequest), "got %v", err)
	assert.Equal(t, 0, f.store.commentCreates)
}

func TestCreateComment_Validation(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	_, err := f.comments.CreateComment(ctx, aliceID, ghostID, "")
	assert.True(t, errors.Is(err, common.ErrBadRequest))

	_, err = f.comments.CreateComment(ctx, aliceID, "p-1", "hi")
	assert.True(t, errors.Is(err, common.ErrBadRequest))
}

func TestCreateComment_Success(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	p, err := f.posts.CreatePost(ctx, aliceID, "t", "c", "b")
	require.NoError(t, err)

	c, err := f.comments.CreateComment(ctx, bobID, p.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, p.ID, c.PostID)
	assert.Equal(t, models.Author{ID: bobID, Name: "Bob", UserName: "bob"}, c.Author)

	got, err := f.comments.GetComment(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
}

func TestListComments(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	empty, err := f.comments.ListComments(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	p, err := f.posts.CreatePost(ctx, aliceID, "t", "c", "b")
	require.NoError(t, err)
	_, err = f.comments.CreateComment(ctx, aliceID, p.ID, "one")
	require.NoError(t, err)
	_, err = f.comments.CreateComment(ctx, bobID, p.ID, "two")
	require.NoError(t, err)

	all, err := f.comments.ListComments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "two", all[0].Content)

	byPost, err := f.comments.ListCommentsByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, byPost, 2)

	none, err := f.comments.ListCommentsByPost(ctx, ghostID)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUpdateAndDeleteComment_OwnerOnly(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	p, err := f.posts.CreatePost(ctx, aliceID, "t", "c", "b")
	require.NoError(t, err)
	c, err := f.comments.CreateComment(ctx, bobID, p.ID, "orig")
	require.NoError(t, err)

	_, err = f.comments.UpdateComment(ctx, alice, c.ID, models.CommentPatch{Content: ptr("x")})
	assert.True(t, errors.Is(err, common.ErrForbidden))

	_, err = f.comments.UpdateComment(ctx, bob, c.ID, models.CommentPatch{Content: ptr("")})
	assert.True(t, errors.Is(err, common.ErrBadRequest))

	got, err := f.comments.UpdateComment(ctx, bob, c.ID, models.CommentPatch{Content: ptr("edited")})
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)
	assert.True(t, got.UpdatedAt.After(c.UpdatedAt))

	err = f.comments.DeleteComment(ctx, alice, c.ID)
	assert.True(t, errors.Is(err, common.ErrForbidden))

	require.NoError(t, f.comments.DeleteComment(ctx, bob, c.ID))

	_, err = f.comments.GetComment(ctx, c.ID)
	assert.True(t, errors.Is(err, common.ErrorNotFound))

	err = f.comments.DeleteComment(ctx, bob, c.ID)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}
