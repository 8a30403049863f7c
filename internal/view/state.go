package view

import (
	"fmt"

	"github.com/existflow/taskboard/internal/form"
	"github.com/existflow/taskboard/internal/model"
)

// Screen is a top-level, mutually exclusive surface
type Screen int

const (
	ScreenAuth Screen = iota
	ScreenDashboard
)

func (s Screen) String() string {
	if s == ScreenDashboard {
		return "dashboard"
	}
	return "auth"
}

// Tab is a dashboard sub-view
type Tab string

const (
	TabTasks         Tab = "tasks"
	TabNotifications Tab = "notifications"
)

// ParseTab converts a tab name
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case TabTasks, TabNotifications:
		return Tab(s), nil
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// ParseAuthForm converts an auth form name
func ParseAuthForm(s string) (form.ID, error) {
	id := form.ID(s)
	if !id.IsAuth() {
		return "", fmt.Errorf("unknown auth form %q", s)
	}
	return id, nil
}

// MessageKind styles an auth screen message
type MessageKind int

const (
	MessageError MessageKind = iota
	MessageSuccess
)

// ViewState is rebuilt on every screen transition and never persisted
type ViewState struct {
	ActiveScreen   Screen
	ActiveTab      Tab
	AuthForm       form.ID
	FormVisibility map[form.ID]bool
}

func authState(f form.ID) ViewState {
	return ViewState{ActiveScreen: ScreenAuth, AuthForm: f, FormVisibility: map[form.ID]bool{}}
}

func dashboardState() ViewState {
	return ViewState{ActiveScreen: ScreenDashboard, ActiveTab: TabTasks, FormVisibility: map[form.ID]bool{}}
}

func (s ViewState) clone() ViewState {
	vis := make(map[form.ID]bool, len(s.FormVisibility))
	for k, v := range s.FormVisibility {
		vis[k] = v
	}
	s.FormVisibility = vis
	return s
}

// ScreenView is the surface the controller drives
type ScreenView interface {
	ShowAuth(f form.ID)
	ShowDashboard(sess model.Session)
	ShowTab(tab Tab)
	ShowAuthMessage(msg string, kind MessageKind)
	ClearAuthMessage()
	ResetForms()
	SetFormVisible(id form.ID, visible bool)
	Notify(msg string)
}
