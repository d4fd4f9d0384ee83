// Package archive 在本地保存对话镜像，离线时也能浏览已保存的会话。
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"fiesta-cli/internal/chat"
)

// Record 是本地保存的一段完整对话。
type Record struct {
	ID             string         `json:"id"`
	EventID        string         `json:"event_id"`
	ConversationID string         `json:"conversation_id"`
	Title          string         `json:"title"`
	Preview        string         `json:"preview"`
	Messages       []chat.Message `json:"messages"`
	Updated        time.Time      `json:"updated"`
}

// Store 将对话记录写入目录下的 JSON 文件，文件名即记录 id。
type Store struct {
	Dir string
}

// DefaultDir 返回缺省存档目录。
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".fiesta", "conversations"), nil
}

// NewDefault 以缺省目录构造存档。
func NewDefault() (*Store, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) ensureDir() error {
	if s == nil || s.Dir == "" {
		return errors.New("archive dir is empty")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

// Save 写入记录；id 为空时自动生成。返回最终 id。
func (s *Store) Save(rec Record) (string, error) {
	if err := s.ensureDir(); err != nil {
		return "", err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Preview == "" && len(rec.Messages) > 0 {
		rec.Preview = rec.Messages[len(rec.Messages)-1].Preview(120)
	}
	rec.Updated = time.Now()
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, rec.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Load 按 id 读取记录。
func (s *Store) Load(id string) (Record, error) {
	var rec Record
	if s == nil || s.Dir == "" {
		return rec, errors.New("archive dir is empty")
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, id+".json"))
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// Delete 删除记录；不存在不算错误。
func (s *Store) Delete(id string) error {
	if s == nil || s.Dir == "" {
		return errors.New("archive dir is empty")
	}
	err := os.Remove(filepath.Join(s.Dir, id+".json"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// FindByConversation 按对话 id 查找记录。
func (s *Store) FindByConversation(conversationID string) (Record, bool, error) {
	records, err := s.List("")
	if err != nil {
		return Record{}, false, err
	}
	for _, rec := range records {
		if rec.ConversationID == conversationID {
			return rec, true, nil
		}
	}
	return Record{}, false, nil
}

// History 按对话 id 取回消息，供助手客户端补齐未见过的会话。
// 读盘失败视为未找到。
func (s *Store) History(conversationID string) ([]chat.Message, bool) {
	rec, ok, err := s.FindByConversation(conversationID)
	if err != nil || !ok {
		return nil, false
	}
	return rec.Messages, true
}

// List 返回按更新时间倒序的记录，eventID 非空时过滤。
func (s *Store) List(eventID string) ([]Record, error) {
	if s == nil || s.Dir == "" {
		return nil, errors.New("archive dir is empty")
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var records []Record
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := entry.Name()[:len(entry.Name())-len(".json")]
		rec, err := s.Load(id)
		if err != nil {
			continue
		}
		if eventID != "" && rec.EventID != eventID {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Updated.After(records[j].Updated)
	})
	return records, nil
}

// Describe 返回单行摘要，保存列表视图使用。
func (r Record) Describe() string {
	title := r.Title
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf("%s — %d messages, %s", title, len(r.Messages), r.Updated.Format("2006-01-02 15:04"))
}
