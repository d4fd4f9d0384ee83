package archive

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PromptEntry 是输入历史中的一行。
type PromptEntry struct {
	Text string    `json:"text"`
	TS   time.Time `json:"ts"`
}

// PromptHistory 以 JSONL 追加方式保存用户输入，供输入框上翻使用。
type PromptHistory struct {
	Path string
}

// DefaultPromptPath 返回缺省历史文件路径。
func DefaultPromptPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".fiesta", "history.jsonl"), nil
}

// Append 追加一条输入；空白输入忽略。
func (h *PromptHistory) Append(text string) error {
	if h == nil {
		return errors.New("prompt history is nil")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if strings.TrimSpace(h.Path) == "" {
		return errors.New("prompt history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(h.Path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(h.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	entry := PromptEntry{Text: text, TS: time.Now()}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

// Load 读取全部历史输入，坏行跳过。
func (h *PromptHistory) Load() ([]string, error) {
	if h == nil {
		return nil, errors.New("prompt history is nil")
	}
	if strings.TrimSpace(h.Path) == "" {
		return nil, errors.New("prompt history path is empty")
	}
	f, err := os.Open(h.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var out []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e PromptEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		if strings.TrimSpace(e.Text) == "" {
			continue
		}
		out = append(out, e.Text)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
