package notifier

import "github.com/rs/zerolog"

// Notifier delivers an outbound alert. Delivery is best-effort: the scan loop
// treats every failure as discarded, never retried.
type Notifier interface {
	Send(text string) error
	Name() string
}

// ConsoleNotifier writes alerts to the log. Used when no Telegram credentials
// are configured.
type ConsoleNotifier struct {
	Log zerolog.Logger
}

func NewConsoleNotifier(log zerolog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{Log: log}
}

func (c *ConsoleNotifier) Name() string { return "console" }

func (c *ConsoleNotifier) Send(text string) error {
	c.Log.Info().Str("notifier", "console").Msg(text)
	return nil
}
