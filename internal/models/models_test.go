package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommentAttributed(t *testing.T) {
	uid := uint(7)
	name := "Budi"
	blank := "   "

	tests := []struct {
		name    string
		comment Comment
		want    bool
	}{
		{"user only", Comment{UserID: &uid}, true},
		{"name only", Comment{AuthorName: &name}, true},
		{"both", Comment{UserID: &uid, AuthorName: &name}, false},
		{"neither", Comment{}, false},
		{"blank name", Comment{AuthorName: &blank}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.comment.Attributed())
		})
	}
}

func TestContentPath(t *testing.T) {
	assert.Equal(t, "/news/42", ContentPath(KindNews, "42"))
	assert.Equal(t, "/waste-bank/3", ContentPath(KindWasteBank, "3"))
	assert.Equal(t, "", ContentPath("gallery", "3"))
	assert.Equal(t, "", ContentPath(KindNews, ""))

	a := Article{ID: 12, Kind: KindNews}
	assert.Equal(t, "12", a.ContentID())
	assert.Equal(t, "/news/12", a.Path())
}
