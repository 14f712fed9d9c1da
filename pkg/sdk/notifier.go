package sdk

// NoticeLevel ranks user-visible notices.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message meant for the person using the frontend.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Notifier delivers notices to the user. The CLI prints them; the web
// frontend turns them into flash messages.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

// SessionExpiredNotice is sent once each time authorization loss ends a session.
var SessionExpiredNotice = Notice{
	Level:   NoticeWarning,
	Message: "Your session has expired or was revoked. Please log in again.",
}
