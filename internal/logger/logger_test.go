package logger

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatterFieldOrderingAndSkipping(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		name    string
		data    logrus.Fields
		message string
		want    string
	}{
		{
			name: "component and sorted fields",
			data: logrus.Fields{
				"component":  "reconciler",
				"caller":     "x.go:1",
				"verb":       "add",
				"entity":     "tasks",
				"session_id": "s1",
			},
			message: "applied suggested action",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [reconciler] applied suggested action entity=tasks session_id=s1 verb=add\n",
		},
		{
			name: "no component",
			data: logrus.Fields{
				"caller": "x.go:1",
				"foo":    "bar",
			},
			message: "hello",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] hello foo=bar\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Logger:  logrus.New(),
				Time:    ts,
				Level:   logrus.InfoLevel,
				Message: tc.message,
				Data:    tc.data,
			}
			got, err := PlainFormatter{}.Format(entry)
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			if string(got) != tc.want {
				t.Fatalf("Format got %q want %q", string(got), tc.want)
			}
		})
	}
}

func TestShortenFilePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/home/u/src/fiesta-cli/internal/chat/store.go", "internal/chat/store.go"},
		{"/home/u/src/fiesta-cli/cmd/fiesta-cli/main.go", "cmd/fiesta-cli/main.go"},
		{"/tmp/other/file.go", "file.go"},
	}
	for _, tc := range cases {
		if got := shortenFilePath(tc.in); got != tc.want {
			t.Fatalf("shortenFilePath(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestNamedAttachesComponent(t *testing.T) {
	entry := Named("hints")
	if got, ok := entry.Data["component"].(string); !ok || got != "hints" {
		t.Fatalf("Named component=%v", entry.Data["component"])
	}
}

func TestFlatten(t *testing.T) {
	if got := flatten("a\nb\rc"); !strings.Contains(got, `\n`) || !strings.Contains(got, `\r`) {
		t.Fatalf("flatten got %q", got)
	}
}
