package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fiesta-cli/internal/logger"
)

// ErrNotFound 表示后端返回 404。
var ErrNotFound = errors.New("planner: resource not found")

// Client 是策划后端的 REST 客户端。零值不可用，必须通过 NewClient 构造。
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *logger.LogEntry
}

// Options 定义客户端参数。
type Options struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewClient 构造 REST 客户端。
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("planner base url is empty")
	}
	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: base,
		token:   strings.TrimSpace(opts.Token),
		http:    httpClient,
		log:     logger.Named("planner"),
	}, nil
}

// Ping 检查后端可达性。
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/v1/health", nil, nil)
}

// GetEvent 获取活动基础信息。
func (c *Client) GetEvent(ctx context.Context, eventID string) (Event, error) {
	var ev Event
	err := c.do(ctx, http.MethodGet, "/v1/events/"+eventID, nil, &ev)
	return ev, err
}

// ListTasks 列出活动下的全部任务。
func (c *Client) ListTasks(ctx context.Context, eventID string) ([]Task, error) {
	var out []Task
	err := c.do(ctx, http.MethodGet, "/v1/events/"+eventID+"/tasks", nil, &out)
	return out, err
}

// CreateTask 创建任务，返回后端补全了 id 的记录。
func (c *Client) CreateTask(ctx context.Context, eventID string, t Task) (Task, error) {
	var out Task
	err := c.do(ctx, http.MethodPost, "/v1/events/"+eventID+"/tasks", t, &out)
	return out, err
}

// UpdateTask 整体更新任务。
func (c *Client) UpdateTask(ctx context.Context, eventID string, t Task) error {
	return c.do(ctx, http.MethodPut, "/v1/events/"+eventID+"/tasks/"+t.ID, t, nil)
}

// DeleteTask 删除任务。
func (c *Client) DeleteTask(ctx context.Context, eventID, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/events/"+eventID+"/tasks/"+taskID, nil, nil)
}

// ListAgenda 列出议程。
func (c *Client) ListAgenda(ctx context.Context, eventID string) ([]AgendaItem, error) {
	var out []AgendaItem
	err := c.do(ctx, http.MethodGet, "/v1/events/"+eventID+"/agenda", nil, &out)
	return out, err
}

// CreateAgendaItem 创建议程条目。
func (c *Client) CreateAgendaItem(ctx context.Context, eventID string, item AgendaItem) (AgendaItem, error) {
	var out AgendaItem
	err := c.do(ctx, http.MethodPost, "/v1/events/"+eventID+"/agenda", item, &out)
	return out, err
}

// UpdateAgendaItem 整体更新议程条目。
func (c *Client) UpdateAgendaItem(ctx context.Context, eventID string, item AgendaItem) error {
	return c.do(ctx, http.MethodPut, "/v1/events/"+eventID+"/agenda/"+item.ID, item, nil)
}

// DeleteAgendaItem 删除议程条目。
func (c *Client) DeleteAgendaItem(ctx context.Context, eventID, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/events/"+eventID+"/agenda/"+itemID, nil, nil)
}

// ListExpenses 列出开销。
func (c *Client) ListExpenses(ctx context.Context, eventID string) ([]Expense, error) {
	var out []Expense
	err := c.do(ctx, http.MethodGet, "/v1/events/"+eventID+"/expenses", nil, &out)
	return out, err
}

// CreateExpense 创建开销记录。
func (c *Client) CreateExpense(ctx context.Context, eventID string, e Expense) (Expense, error) {
	var out Expense
	err := c.do(ctx, http.MethodPost, "/v1/events/"+eventID+"/expenses", e, &out)
	return out, err
}

// UpdateExpense 整体更新开销记录。
func (c *Client) UpdateExpense(ctx context.Context, eventID string, e Expense) error {
	return c.do(ctx, http.MethodPut, "/v1/events/"+eventID+"/expenses/"+e.ID, e, nil)
}

// DeleteExpense 删除开销记录。
func (c *Client) DeleteExpense(ctx context.Context, eventID, expenseID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/events/"+eventID+"/expenses/"+expenseID, nil, nil)
}

// GetBudget 获取预算。
func (c *Client) GetBudget(ctx context.Context, eventID string) (Budget, error) {
	var out Budget
	err := c.do(ctx, http.MethodGet, "/v1/events/"+eventID+"/budget", nil, &out)
	return out, err
}

// SetPlanned 覆盖计划预算值。
func (c *Client) SetPlanned(ctx context.Context, eventID string, plannedMinor int64) error {
	body := map[string]int64{"planned_minor": plannedMinor}
	return c.do(ctx, http.MethodPut, "/v1/events/"+eventID+"/budget", body, nil)
}

// ScheduleReminder 为议程条目安排一条提醒推送。
func (c *Client) ScheduleReminder(ctx context.Context, eventID string, item AgendaItem) error {
	body := map[string]any{
		"agenda_item_id": item.ID,
		"title":          item.Title,
		"fire_at":        item.Start,
	}
	return c.do(ctx, http.MethodPost, "/v1/events/"+eventID+"/reminders", body, nil)
}

// Saved 从后端读取已保存对话列表。
func (c *Client) Saved(ctx context.Context, eventID string) ([]SavedConversation, error) {
	var out []SavedConversation
	err := c.do(ctx, http.MethodGet, "/v1/events/"+eventID+"/conversations", nil, &out)
	return out, err
}

// Save 保存一段对话。
func (c *Client) Save(ctx context.Context, eventID, conversationID string) error {
	body := map[string]string{"conversation_id": conversationID}
	return c.do(ctx, http.MethodPost, "/v1/events/"+eventID+"/conversations", body, nil)
}

// Unsave 取消保存。
func (c *Client) Unsave(ctx context.Context, eventID, conversationID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/events/"+eventID+"/conversations/"+conversationID, nil, nil)
}

// ToggleChecklistItem 同步清单条目的勾选状态。
func (c *Client) ToggleChecklistItem(ctx context.Context, eventID, checklistID, itemID string, checked bool) error {
	body := map[string]any{"checked": checked}
	path := "/v1/events/" + eventID + "/checklists/" + checklistID + "/items/" + itemID
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if c.log != nil {
			c.log.WithFields(logger.Fields{"status": resp.StatusCode, "path": path}).Warn("planner call failed")
		}
		return fmt.Errorf("%s %s: status=%d body=%s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
