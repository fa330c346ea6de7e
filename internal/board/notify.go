// Package board holds the client-side state of the feedback board pages: the
// searchable overview, the management list with inline editing and the
// submission form. Each view is a session-scoped container; views never
// share state with each other.
package board

import (
	"github.com/NomadCrew/feedback-board/logger"
	"go.uber.org/zap"
)

// Routes a Navigator can be asked to open.
const (
	RouteBoard  = "/"
	RouteManage = "/feedback"
	RouteSubmit = "/submit"
)

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient message shown to the user.
type Notification struct {
	Kind    NotificationKind
	Message string
}

type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

type Navigator interface {
	Navigate(route string)
}

type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// LogNotifier writes notifications as structured log entries. Errors are
// logged at warn level.
type LogNotifier struct {
	log *zap.SugaredLogger
}

// NewLogNotifier logs through log, or the application logger when log is nil.
func NewLogNotifier(log *zap.SugaredLogger) *LogNotifier {
	if log == nil {
		log = logger.GetLogger()
	}
	return &LogNotifier{log: log.Named("board")}
}

func (n *LogNotifier) Notify(notification Notification) {
	if notification.Kind == NotificationError {
		n.log.Warnw(notification.Message, "kind", string(notification.Kind))
		return
	}
	n.log.Infow(notification.Message, "kind", string(notification.Kind))
}

func success(n Notifier, msg string) {
	n.Notify(Notification{Kind: NotificationSuccess, Message: msg})
}

func failure(n Notifier, msg string) {
	n.Notify(Notification{Kind: NotificationError, Message: msg})
}
