package handlers

import (
	"log/slog"
	"net/http"

	"picocms/internal/models"
	"picocms/internal/route"
	"picocms/internal/view"
)

// resolvePage picks the view model and status code for the route. Protected
// pages have already passed the login check.
func (s *Site) resolvePage(r *http.Request, rt route.Route, loginErr string) (view.Model, int) {
	ctx := r.Context()

	switch rt.Page {
	case route.PagePost:
		if rt.Slug == "" {
			return view.NotFoundView{}, http.StatusNotFound
		}
		p, err := s.content.FindBySlug(ctx, rt.Slug)
		if err != nil {
			slog.Error("find post by slug", "error", err, "slug", rt.Slug)
		}
		if p == nil {
			return view.NotFoundView{}, http.StatusNotFound
		}
		return view.SingleView{Post: p}, http.StatusOK

	case route.PageLogin:
		return view.LoginView{Error: loginErr, TOTP: s.gate.TOTPEnabled()}, http.StatusOK

	case route.PageAdmin:
		return s.adminView(r), http.StatusOK

	case route.PageNew:
		return view.PostFormView{}, http.StatusOK

	case route.PageEdit:
		if !rt.HasID {
			return view.NotFoundView{}, http.StatusNotFound
		}
		p, err := s.content.FindByID(ctx, rt.ID)
		if err != nil {
			slog.Error("find post by id", "error", err, "id", rt.ID)
		}
		if p == nil {
			return view.NotFoundView{}, http.StatusNotFound
		}
		return view.PostFormView{Post: p}, http.StatusOK

	case route.PageSettings:
		return view.NewSettingsView(s.loadSettings(ctx)), http.StatusOK

	case route.PageContact:
		if r.Method == http.MethodPost {
			return view.ContactView{Success: s.submitContact(r)}, http.StatusOK
		}
		return view.ContactView{}, http.StatusOK
	}

	postType := models.ContentTypePost
	posts, err := s.content.List(ctx, &postType)
	if err != nil {
		slog.Error("list posts", "error", err)
	}
	return view.HomeView{Posts: posts}, http.StatusOK
}

func (s *Site) adminView(r *http.Request) view.AdminView {
	ctx := r.Context()
	var v view.AdminView
	var err error

	if v.UnreadCount, err = s.messages.UnreadCount(ctx); err != nil {
		slog.Error("count unread messages", "error", err)
	}
	if v.Messages, err = s.messages.List(ctx, 0); err != nil {
		slog.Error("list messages", "error", err)
	}

	pageType, postType := models.ContentTypePage, models.ContentTypePost
	if v.Pages, err = s.content.List(ctx, &pageType); err != nil {
		slog.Error("list pages", "error", err)
	}
	if v.Posts, err = s.content.List(ctx, &postType); err != nil {
		slog.Error("list posts", "error", err)
	}
	return v
}
