package event

// Commands raised by the surface. Payload values are strings so that this
// package stays free of view types; handlers convert them.

// SelectNotification opens the detail panel for a notification
type SelectNotification struct{ ID string }

// MarkRead marks a notification as read
type MarkRead struct{ ID string }

// DeleteNotification deletes a notification after confirmation
type DeleteNotification struct{ ID string }

// SwitchTab shows a dashboard tab and refreshes it
type SwitchTab struct{ Tab string }

// SwitchAuthForm toggles between the login and signup forms
type SwitchAuthForm struct{ Form string }

// Submit submits a form by its id
type Submit struct{ Form string }

// ToggleForm shows or hides a create form
type ToggleForm struct{ Form string }

// Logout ends the session
type Logout struct{}

// RefreshTab reloads a tab's collection without switching to it
type RefreshTab struct{ Tab string }
