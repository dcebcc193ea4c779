//go:build dev

package logging

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultSocket = "/tmp/mcplogd.sock"
const appName = "fence"

type entry struct {
	App       string         `json:"app"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// socketHook mirrors log entries to a local mcplogd socket in dev builds.
type socketHook struct {
	socket string
}

func devHook() logrus.Hook {
	return &socketHook{socket: defaultSocket}
}

func (h *socketHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *socketHook) Fire(e *logrus.Entry) error {
	conn, err := net.Dial("unix", h.socket)
	if err != nil {
		return nil
	}
	defer conn.Close()

	data, err := json.Marshal(entry{
		App:       appName,
		Level:     e.Level.String(),
		Message:   e.Message,
		Timestamp: e.Time.UTC().Format(time.RFC3339Nano),
		Metadata:  e.Data,
	})
	if err != nil {
		return nil
	}
	_, _ = fmt.Fprintf(conn, "%s\n", data)
	return nil
}
