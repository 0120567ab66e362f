// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package route turns request paths into a structured page/action/id tuple.
// Resolution is pure: it performs no I/O and malformed input degrades to
// defaults instead of failing.
package route

import (
	"net/url"
	"strings"
)

// Page names a top-level screen of the site.
type Page string

const (
	PageHome     Page = "home"
	PagePost     Page = "post"
	PageLogin    Page = "login"
	PageAdmin    Page = "admin"
	PageNew      Page = "new"
	PageEdit     Page = "edit"
	PageSettings Page = "settings"
	PageContact  Page = "contact"
)

// RequiresLogin reports whether the page is part of the admin area.
func (p Page) RequiresLogin() bool {
	switch p {
	case PageAdmin, PageNew, PageEdit, PageSettings:
		return true
	}
	return false
}

// Action names an admin mutation carried in /admin/<action>[/<id>].
type Action string

const (
	ActionNone          Action = ""
	ActionNewPost       Action = "new_post"
	ActionEditPost      Action = "edit_post"
	ActionDeletePost    Action = "delete_post"
	ActionSaveSettings  Action = "save_settings"
	ActionLogout        Action = "logout"
	ActionViewMessage   Action = "view_message"
	ActionDeleteMessage Action = "delete_message"
)

// Route is the resolved form of a single request path.
type Route struct {
	Page   Page
	Action Action
	Slug   string
	ID     int64
	HasID  bool
}

// Resolve parses path into a Route after stripping basePath, the mount point
// of the application. path is the escaped request path; each segment is
// unescaped after splitting so an encoded slash stays inside its segment.
// Segments past the ones a page consumes are ignored.
func Resolve(path, basePath string) Route {
	rt := Route{Page: PageHome}

	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = stripBase(path, basePath)

	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if v, err := url.PathUnescape(seg); err == nil {
			segments[i] = v
		}
	}
	if segments[0] == "" {
		return rt
	}
	rt.Page = Page(segments[0])

	switch rt.Page {
	case PagePost:
		if len(segments) > 1 {
			rt.Slug = segments[1]
		}
	case PageEdit:
		if len(segments) > 1 {
			rt.setID(segments[1])
		}
	case PageAdmin:
		if len(segments) > 1 {
			rt.Action = Action(segments[1])
		}
		if len(segments) > 2 {
			rt.setID(segments[2])
		}
	}
	return rt
}

// WithQuery layers the ?action=, ?id= and ?slug= query parameters over the
// path route. Empty parameters leave the path values untouched.
func (rt Route) WithQuery(q url.Values) Route {
	if v := q.Get("action"); v != "" {
		rt.Action = Action(v)
	}
	if v := q.Get("id"); v != "" {
		rt.setID(v)
	}
	if v := q.Get("slug"); v != "" {
		rt.Slug = v
	}
	return rt
}

// setID records an id segment. "" and "0" count as absent; any other value
// is present, even when it does not parse to a positive number.
func (rt *Route) setID(seg string) {
	if seg == "" || seg == "0" {
		return
	}
	rt.ID = ParseInt(seg)
	rt.HasID = true
}

// stripBase removes basePath from the front of path when it is a whole
// segment prefix.
func stripBase(path, basePath string) string {
	base := strings.TrimRight(basePath, "/")
	if base == "" {
		return path
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	if path == base {
		return "/"
	}
	if strings.HasPrefix(path, base+"/") {
		return path[len(base):]
	}
	return path
}

// ParseInt reads an optional sign followed by leading decimal digits and
// ignores the rest: "42abc" is 42, "abc" is 0. Values that overflow clamp.
func ParseInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	var n int64
	const limit = 1<<63 - 1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		d := int64(c - '0')
		if n > (limit-d)/10 {
			n = limit
			break
		}
		n = n*10 + d
	}
	if neg {
		return -n
	}
	return n
}
