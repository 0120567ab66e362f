// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ContentType distinguishes between posts and pages in the unified posts table.
type ContentType string

const (
	// ContentTypePost is chronological content listed on the home feed.
	ContentTypePost ContentType = "post"
	// ContentTypePage is static content listed in the site navigation.
	ContentTypePage ContentType = "page"
)

// ParseContentType maps a form value to a ContentType. Anything that is not
// exactly "page" is treated as a post.
func ParseContentType(s string) ContentType {
	if ContentType(s) == ContentTypePage {
		return ContentTypePage
	}
	return ContentTypePost
}

// Post represents a post or a page. Both kinds share the same table and are
// differentiated by the Type field.
type Post struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"` // raw HTML, stored verbatim
	Type      ContentType `json:"type"`
	Slug      string      `json:"slug"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// IsPage returns true if the post is a static page.
func (p *Post) IsPage() bool {
	return p.Type == ContentTypePage
}
