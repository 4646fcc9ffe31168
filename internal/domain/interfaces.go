package domain

import "context"

// Surface is a long-running delivery surface such as the HTTP API or the
// chat bot.
type Surface interface {
	Name() string
	Start(ctx context.Context) error
	Stop()
}
