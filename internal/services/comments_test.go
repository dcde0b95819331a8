package services

import (
	"context"
	"testing"
	"time"

	"sekolahku/internal/errs"
	"sekolahku/internal/identity"
	"sekolahku/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymousCommentScenario(t *testing.T) {
	svc := NewCommentService(setupTestDB(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, identity.FromToken("abc-123"), newsRef, CommentInput{
		Content:    "Great article!",
		AuthorName: "Budi",
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, newsRef)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Great article!", list[0].Content)
	require.NotNil(t, list[0].AuthorName)
	assert.Equal(t, "Budi", *list[0].AuthorName)
	assert.Nil(t, list[0].User)
	assert.Equal(t, "Budi", list[0].DisplayName())
}

func TestCommentValidation(t *testing.T) {
	svc := NewCommentService(setupTestDB(t))
	ctx := context.Background()
	anon := identity.FromToken("abc")

	_, err := svc.Create(ctx, anon, newsRef, CommentInput{Content: "   ", AuthorName: "Budi"})
	assert.ErrorIs(t, err, &errs.Error{Kind: errs.ValidationFailed, Field: "content"})

	_, err = svc.Create(ctx, anon, newsRef, CommentInput{Content: "Halo", AuthorName: " "})
	assert.ErrorIs(t, err, &errs.Error{Kind: errs.ValidationFailed, Field: "author_name"})

	_, err = svc.Create(ctx, anon, ContentRef{Type: "faq", ID: "1"}, CommentInput{Content: "Halo", AuthorName: "Budi"})
	assert.ErrorIs(t, err, &errs.Error{Kind: errs.ValidationFailed, Field: "content_type"})

	list, err := svc.List(ctx, newsRef)
	require.NoError(t, err)
	assert.Empty(t, list, "rejected comments must not be stored")
}

func TestAuthenticatedCommentIgnoresName(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewCommentService(gdb)
	ctx := context.Background()
	u := createUser(t, gdb, "bu_ani", models.RoleUser)

	view, err := svc.Create(ctx, identity.FromUser(u), newsRef, CommentInput{Content: "Mantap", AuthorName: "Palsu"})
	require.NoError(t, err)
	require.NotNil(t, view.User)
	assert.Equal(t, "bu_ani", view.User.Name)
	assert.Nil(t, view.AuthorName)

	var stored models.Comment
	require.NoError(t, gdb.First(&stored, view.ID).Error)
	assert.NotNil(t, stored.UserID)
	assert.Nil(t, stored.AuthorName)
}

func TestCommentExclusivityEnforcedByStore(t *testing.T) {
	gdb := setupTestDB(t)
	u := createUser(t, gdb, "pak_joko", models.RoleUser)
	name := "Budi"

	neither := models.Comment{Content: "x", ContentType: models.KindNews, ContentID: "1"}
	assert.Error(t, gdb.Create(&neither).Error)

	both := models.Comment{Content: "x", ContentType: models.KindNews, ContentID: "1", UserID: &u.ID, AuthorName: &name}
	assert.Error(t, gdb.Create(&both).Error)

	var count int64
	gdb.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
}

func TestListNewestFirstWithUserJoin(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewCommentService(gdb)
	ctx := context.Background()
	u := createUser(t, gdb, "guru_ipa", models.RoleUser)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	name := "Wati"
	rows := []models.Comment{
		{Content: "pertama", AuthorName: &name, ContentType: models.KindNews, ContentID: "42", CreatedAt: base},
		{Content: "kedua", UserID: &u.ID, ContentType: models.KindNews, ContentID: "42", CreatedAt: base.Add(time.Hour)},
		{Content: "lain", AuthorName: &name, ContentType: models.KindWasteBank, ContentID: "42", CreatedAt: base},
	}
	require.NoError(t, gdb.Create(&rows).Error)

	list, err := svc.List(ctx, newsRef)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "kedua", list[0].Content)
	require.NotNil(t, list[0].User)
	assert.Equal(t, CommentUser{Name: "guru_ipa", Image: "/img/guru_ipa.png"}, *list[0].User)
	assert.Nil(t, list[0].AuthorName)
	assert.Equal(t, "pertama", list[1].Content)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewCommentService(gdb)
	ctx := context.Background()
	admin := createUser(t, gdb, "admin", models.RoleAdmin)
	staff := createUser(t, gdb, "staf", models.RoleUser)

	view, err := svc.Create(ctx, identity.FromToken("abc"), newsRef, CommentInput{Content: "spam", AuthorName: "Bot"})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, nil, view.ID)
	assert.ErrorIs(t, err, errs.E(errs.Unauthorized))

	_, err = svc.Delete(ctx, staff, view.ID)
	assert.ErrorIs(t, err, errs.E(errs.Unauthorized))

	deleted, err := svc.Delete(ctx, admin, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "42", deleted.ContentID)

	_, err = svc.Delete(ctx, admin, view.ID)
	assert.ErrorIs(t, err, errs.E(errs.NotFound))

	var count int64
	gdb.Unscoped().Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count, "delete is a hard delete")
}

func TestCommentsCascadeOnUserDelete(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewCommentService(gdb)
	ctx := context.Background()
	u := createUser(t, gdb, "alumni", models.RoleUser)

	_, err := svc.Create(ctx, identity.FromUser(u), newsRef, CommentInput{Content: "Rindu sekolah"})
	require.NoError(t, err)
	require.NoError(t, gdb.Delete(&models.User{}, u.ID).Error)

	list, err := svc.List(ctx, newsRef)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListAllPaginates(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewCommentService(gdb)
	ctx := context.Background()

	for i, ref := range []ContentRef{newsRef, newsRef, {Type: models.KindWasteBank, ID: "3"}} {
		_, err := svc.Create(ctx, identity.FromToken("t"), ref, CommentInput{Content: "komentar", AuthorName: string(rune('A' + i))})
		require.NoError(t, err)
	}

	page, total, err := svc.ListAll(ctx, CommentFilter{PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	page, total, err = svc.ListAll(ctx, CommentFilter{ContentType: models.KindWasteBank})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, page, 1)
	assert.Equal(t, "/waste-bank/3", page[0].Path)

	counts, err := svc.Counts(ctx, models.KindNews, []string{"42"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["42"])
}
