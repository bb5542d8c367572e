package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnonymousAuthor is used when no authenticated actor is present.
const AnonymousAuthor = "Anonymous"

// Post represents a blog entry published on the catalog portal.
// Thumbnail and Images hold public paths produced by the upload store;
// Images is a JSON-encoded array kept in a nullable text column so that
// "never had images" (NULL) stays distinct from an empty list.
type Post struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Title     string    `gorm:"size:512;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Author    string    `gorm:"size:255;not null" json:"author"`
	Thumbnail *string   `gorm:"size:1024" json:"thumbnail"`
	Images    *string   `gorm:"type:text" json:"images"`
	Created   time.Time `gorm:"autoCreateTime;index" json:"created"`
	Updated   time.Time `gorm:"autoUpdateTime" json:"updated"`
}

// BeforeCreate assigns the record identity exactly once.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Author == "" {
		p.Author = AnonymousAuthor
	}
	return nil
}

// EncodeImages serializes a list of image paths for storage.
// An empty list encodes to nil so the column stays NULL.
func EncodeImages(paths []string) *string {
	if len(paths) == 0 {
		return nil
	}
	b, err := json.Marshal(paths)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// DecodeImages parses the stored JSON array. A NULL column or malformed
// payload yields an empty list, never an error.
func DecodeImages(raw *string) []string {
	if raw == nil || *raw == "" {
		return []string{}
	}
	var paths []string
	if err := json.Unmarshal([]byte(*raw), &paths); err != nil {
		return []string{}
	}
	if paths == nil {
		return []string{}
	}
	return paths
}

// AppendImages extends the stored list with newly uploaded paths,
// preserving the existing order.
func (p *Post) AppendImages(paths []string) {
	if len(paths) == 0 {
		return
	}
	existing := DecodeImages(p.Images)
	p.Images = EncodeImages(append(existing, paths...))
}

// ToView returns the plain field map handed to the presentation layer.
// Timestamps are rendered date-only, matching the portal templates.
func (p *Post) ToView() map[string]interface{} {
	var thumbnail interface{}
	if p.Thumbnail != nil {
		thumbnail = *p.Thumbnail
	}
	return map[string]interface{}{
		"id":        p.ID,
		"title":     p.Title,
		"content":   p.Content,
		"author":    p.Author,
		"thumbnail": thumbnail,
		"images":    DecodeImages(p.Images),
		"created":   p.Created.Format("2006-01-02"),
		"updated":   p.Updated.Format("2006-01-02"),
	}
}
