// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"picocms/internal/models"
	"picocms/internal/route"
	"picocms/internal/slug"
	"picocms/internal/view"
)

// Outcome tells the front controller whether an action finished the
// response.
type Outcome int

const (
	// OutcomeFallThrough means nothing was written; the page is rendered.
	OutcomeFallThrough Outcome = iota
	// OutcomeHandled means the action wrote a redirect or a page.
	OutcomeHandled
)

type actionFunc func(s *Site, w http.ResponseWriter, r *http.Request, rt route.Route) Outcome

func defaultActions() map[route.Action]actionFunc {
	return map[route.Action]actionFunc{
		route.ActionNewPost:       (*Site).newPost,
		route.ActionEditPost:      (*Site).editPost,
		route.ActionDeletePost:    (*Site).deletePost,
		route.ActionSaveSettings:  (*Site).saveSettings,
		route.ActionLogout:        (*Site).logout,
		route.ActionViewMessage:   (*Site).viewMessage,
		route.ActionDeleteMessage: (*Site).deleteMessage,
	}
}

// dispatch runs the admin action named by the route. The caller has already
// checked the login state. Unknown actions fall through.
func (s *Site) dispatch(w http.ResponseWriter, r *http.Request, rt route.Route) Outcome {
	fn, ok := s.actions[rt.Action]
	if !ok {
		return OutcomeFallThrough
	}
	return fn(s, w, r, rt)
}

// postFromForm reads the post editor fields. An empty slug is generated from
// the title.
func postFromForm(r *http.Request) *models.Post {
	title := strings.TrimSpace(r.PostFormValue("title"))
	source := r.PostFormValue("slug")
	if source == "" {
		source = title
	}
	return &models.Post{
		Title:   title,
		Content: r.PostFormValue("content"),
		Type:    models.ParseContentType(r.PostFormValue("type")),
		Slug:    slug.Generate(source),
	}
}

func (s *Site) newPost(w http.ResponseWriter, r *http.Request, _ route.Route) Outcome {
	if r.Method != http.MethodPost {
		return OutcomeFallThrough
	}

	created, err := s.content.Create(r.Context(), postFromForm(r))
	if err != nil {
		slog.Error("create post", "error", err)
	} else {
		slog.Info("post created", "id", created.ID, "slug", created.Slug, "type", created.Type)
	}
	s.redirect(w, r, string(route.PageAdmin))
	return OutcomeHandled
}

func (s *Site) editPost(w http.ResponseWriter, r *http.Request, rt route.Route) Outcome {
	if r.Method != http.MethodPost || !rt.HasID {
		return OutcomeFallThrough
	}

	p := postFromForm(r)
	p.ID = rt.ID
	if err := s.content.Update(r.Context(), p); err != nil {
		slog.Error("update post", "error", err, "id", rt.ID)
	}
	s.redirect(w, r, string(route.PageAdmin))
	return OutcomeHandled
}

func (s *Site) deletePost(w http.ResponseWriter, r *http.Request, rt route.Route) Outcome {
	if !rt.HasID {
		return OutcomeFallThrough
	}

	if err := s.content.Delete(r.Context(), rt.ID); err != nil {
		slog.Error("delete post", "error", err, "id", rt.ID)
	}
	s.redirect(w, r, string(route.PageAdmin))
	return OutcomeHandled
}

// saveSettings stores every known setting present in the form. Keys are
// saved one by one; a failure is logged and the remaining keys still save.
func (s *Site) saveSettings(w http.ResponseWriter, r *http.Request, _ route.Route) Outcome {
	if r.Method != http.MethodPost {
		return OutcomeFallThrough
	}
	if err := r.ParseForm(); err != nil {
		slog.Warn("parse settings form", "error", err)
	}

	ctx := r.Context()
	for _, def := range models.DefaultSettings {
		values, ok := r.PostForm[def.Name]
		if !ok || len(values) == 0 {
			continue
		}
		value := strings.TrimSpace(values[0])
		if err := s.settings.Set(ctx, def.Name, value); err != nil {
			slog.Error("save setting", "error", err, "name", def.Name)
		}
		if def.Name == models.SettingThemeColor && value != "" {
			s.stylesheet.Regenerate(ctx, value)
		}
	}
	s.redirect(w, r, string(route.PageSettings))
	return OutcomeHandled
}

func (s *Site) logout(w http.ResponseWriter, r *http.Request, _ route.Route) Outcome {
	if err := s.gate.Logout(r.Context(), w, r); err != nil {
		slog.Error("logout", "error", err)
	}
	s.redirect(w, r, "")
	return OutcomeHandled
}

// viewMessage shows one message and marks it read on first view.
func (s *Site) viewMessage(w http.ResponseWriter, r *http.Request, rt route.Route) Outcome {
	ctx := r.Context()
	settings := s.loadSettings(ctx)

	if !rt.HasID {
		s.render(w, r, rt, settings, http.StatusNotFound, view.NotFoundView{})
		return OutcomeHandled
	}

	msg, err := s.messages.FindByID(ctx, rt.ID)
	if err != nil {
		slog.Error("find message", "error", err, "id", rt.ID)
	}
	if msg == nil {
		s.render(w, r, rt, settings, http.StatusNotFound, view.NotFoundView{})
		return OutcomeHandled
	}

	if !msg.IsRead {
		if _, err := s.messages.MarkRead(ctx, msg.ID); err != nil {
			slog.Error("mark message read", "error", err, "id", msg.ID)
		} else {
			msg.IsRead = true
		}
	}

	s.render(w, r, rt, settings, http.StatusOK, view.MessageView{Message: msg})
	return OutcomeHandled
}

func (s *Site) deleteMessage(w http.ResponseWriter, r *http.Request, rt route.Route) Outcome {
	if !rt.HasID {
		return OutcomeFallThrough
	}

	if err := s.messages.Delete(r.Context(), rt.ID); err != nil {
		slog.Error("delete message", "error", err, "id", rt.ID)
	}
	s.redirect(w, r, string(route.PageAdmin))
	return OutcomeHandled
}
