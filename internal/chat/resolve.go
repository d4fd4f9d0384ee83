package chat

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// resolveTarget 在一组远端记录中定位建议操作条目指向的目标。
// 解析顺序：
//  1. ExistingItemID 非空且命中 id 时直接选中，即使标题另有匹配；
//  2. 否则做大小写不敏感的子串包含匹配（双向均可）；
//  3. 多条候选时用 fuzzy 评分取最高分，同分取集合中靠前者。
//
// 未命中返回 -1，调用方按跳过处理（静默降级，仅记日志）。
func resolveTarget(existingID, title string, ids, titles []string) int {
	if id := strings.TrimSpace(existingID); id != "" {
		for i, candidate := range ids {
			if candidate == id {
				return i
			}
		}
	}

	want := strings.ToLower(strings.TrimSpace(title))
	if want == "" {
		return -1
	}
	var candidates []int
	for i, t := range titles {
		have := strings.ToLower(strings.TrimSpace(t))
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			candidates = append(candidates, i)
		}
	}
	switch len(candidates) {
	case 0:
		return -1
	case 1:
		return candidates[0]
	}

	// 多候选：fuzzy 评分定序，保证平局裁决确定化。
	corpus := make([]string, len(candidates))
	for i, idx := range candidates {
		corpus[i] = strings.ToLower(titles[idx])
	}
	best := candidates[0]
	bestScore := -1
	for _, match := range fuzzy.Find(want, corpus) {
		idx := candidates[match.Index]
		if match.Score > bestScore || (match.Score == bestScore && idx < best) {
			bestScore = match.Score
			best = idx
		}
	}
	return best
}
