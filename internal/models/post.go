package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Post is a promotional deal. Slug is derived once from the title at creation.
type Post struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	Title     string                      `gorm:"not null" json:"title"`
	Content   string                      `gorm:"type:text;not null" json:"content"`
	Slug      string                      `gorm:"not null;uniqueIndex" json:"slug"`
	ImageURL  string                      `gorm:"not null" json:"imageUrl"`
	Tags      datatypes.JSONSlice[string] `json:"tags"`
	Published bool                        `gorm:"not null;default:false;index" json:"published"`
	ExpiresOn *time.Time                  `json:"expiresOn"`
	AuthorID  uint                        `gorm:"not null;index" json:"authorId"`
	Author    *User                       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->;-:migration" json:"commentsCount"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likesCount"`
	// Expired is advisory: published and past ExpiresOn.
	Expired   bool      `gorm:"-" json:"expired"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsExpired reports whether the post is published and its expiration lies before now.
func (p *Post) IsExpired(now time.Time) bool {
	return p.Published && p.ExpiresOn != nil && now.After(*p.ExpiresOn)
}

// Visibility names the lifecycle state of the post at now.
func (p *Post) Visibility(now time.Time) string {
	switch {
	case !p.Published:
		return "draft"
	case p.IsExpired(now):
		return "expired"
	default:
		return "published"
	}
}

// AfterFind fills computed fields.
func (p *Post) AfterFind(_ *gorm.DB) error {
	p.Expired = p.IsExpired(time.Now())
	return nil
}

// HasTag reports whether the post carries tag, ignoring case.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
