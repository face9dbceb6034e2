package folders

import "go.uber.org/zap"

// Notifier receives user facing errors such as a rejected folder.
type Notifier interface {
	Notify(err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(err error)

// Notify calls f(err).
func (f NotifierFunc) Notify(err error) { f(err) }

// LogNotifier reports errors through zap.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that logs at warn level.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs err.
func (n *LogNotifier) Notify(err error) {
	n.logger.Warn("Folder selection failed", zap.Error(err))
}
