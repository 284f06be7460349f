package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestComment_Owner(t *testing.T) {
	userID := uuid.New()

	authored := &Comment{AuthorID: &userID, Username: "jane", Email: "jane@example.com"}
	assert.Equal(t, AuthoredBy{UserID: userID}, authored.Owner())

	anon := &Comment{Username: AnonymousUsername, Email: "reader@example.com"}
	assert.Equal(t, Anonymous{Username: AnonymousUsername, Email: "reader@example.com"}, anon.Owner())
}

func TestArticle_RemoveComment(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	article := &Article{CommentIDs: []uuid.UUID{a, b, c}}

	assert.True(t, article.RemoveComment(b))
	assert.Equal(t, []uuid.UUID{a, c}, article.CommentIDs)
	assert.False(t, article.RemoveComment(b))
	assert.True(t, article.HasComment(c))
	assert.False(t, article.HasComment(b))
}

func TestRoleAndCategory(t *testing.T) {
	assert.True(t, RoleAdmin.Privileged())
	assert.True(t, RoleContributor.Privileged())
	assert.False(t, RoleReader.Privileged())
	assert.False(t, Role("superuser").Valid())

	assert.True(t, CategoryTech.Valid())
	assert.False(t, Category("weather").Valid())
}
