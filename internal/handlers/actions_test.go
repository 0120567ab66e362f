package handlers

import (
	"testing"

	"picocms/internal/route"
)

func TestDefaultActions(t *testing.T) {
	actions := defaultActions()

	for _, a := range []route.Action{
		route.ActionNewPost,
		route.ActionEditPost,
		route.ActionDeletePost,
		route.ActionSaveSettings,
		route.ActionLogout,
		route.ActionViewMessage,
		route.ActionDeleteMessage,
	} {
		if actions[a] == nil {
			t.Errorf("no handler for %q", a)
		}
	}
	if _, ok := actions[route.ActionNone]; ok {
		t.Error("the empty action must not dispatch")
	}
	if len(actions) != 7 {
		t.Errorf("got %d actions, want 7", len(actions))
	}
}
