package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coreos/go-systemd/v22/login1"
)

// logindSessions lists the user class sessions known to systemd-logind as
// "<user>\t<login unix seconds>" lines.
func logindSessions(ctx context.Context) ([]string, error) {
	conn, err := login1.New()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to logind: %w", err)
	}
	defer conn.Close()

	sessions, err := conn.ListSessionsContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	lines := make([]string, 0, len(sessions))
	for _, s := range sessions {
		props, err := conn.GetSessionPropertiesContext(ctx, s.Path)
		if err != nil {
			slog.Debug("skipping session without properties",
				slog.String("session", s.ID), slog.String("error", err.Error()))
			continue
		}

		if class, ok := props["Class"].Value().(string); ok && class != "user" {
			continue
		}

		var login int64
		if usec, ok := props["Timestamp"].Value().(uint64); ok {
			login = int64(usec / uint64(time.Second/time.Microsecond))
		}

		lines = append(lines, fmt.Sprintf("%s\t%d", s.User, login))
	}

	return lines, nil
}
