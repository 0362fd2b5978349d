package queueservice

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fyerfyer/syncq/queue"
)

// QueueData 表示队列的可序列化数据结构
type QueueData struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Wake      string    `json:"wake"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"createdAt"`
	Stats     StatsData `json:"stats"`
	Items     []string  `json:"items,omitempty"`
}

// StatsData 是 queue.Stats 的可序列化形式
type StatsData struct {
	Size            int     `json:"size"`
	Utilization     float64 `json:"utilization"`
	Pushed          uint64  `json:"pushed"`
	Popped          uint64  `json:"popped"`
	PushBlocks      uint64  `json:"pushBlocks"`
	PopBlocks       uint64  `json:"popBlocks"`
	PushTimeouts    uint64  `json:"pushTimeouts"`
	PopTimeouts     uint64  `json:"popTimeouts"`
	Canceled        uint64  `json:"canceled"`
	EmptyRejects    uint64  `json:"emptyRejects"`
	FullRejects     uint64  `json:"fullRejects"`
	Wakeups         uint64  `json:"wakeups"`
	SpuriousWakeups uint64  `json:"spuriousWakeups"`
}

// NewQueueData 从队列信息构造可序列化数据，items 可为 nil
func NewQueueData(info QueueInfo, items []string) QueueData {
	s := info.Stats
	return QueueData{
		ID:        info.ID,
		Name:      info.Name,
		Kind:      info.Kind,
		Wake:      info.WakePolicy.String(),
		Capacity:  s.Capacity,
		CreatedAt: info.CreatedAt,
		Stats: StatsData{
			Size:            s.Size,
			Utilization:     s.Utilization(),
			Pushed:          s.Pushed,
			Popped:          s.Popped,
			PushBlocks:      s.PushBlocks,
			PopBlocks:       s.PopBlocks,
			PushTimeouts:    s.PushTimeouts,
			PopTimeouts:     s.PopTimeouts,
			Canceled:        s.Canceled,
			EmptyRejects:    s.EmptyRejects,
			FullRejects:     s.FullRejects,
			Wakeups:         s.Wakeups,
			SpuriousWakeups: s.SpuriousWakeups,
		},
		Items: items,
	}
}

// SerializeQueueData 将队列数据序列化为JSON
func SerializeQueueData(data ...QueueData) ([]byte, error) {
	if data == nil {
		data = []QueueData{}
	}
	return json.MarshalIndent(data, "", "  ")
}

// FormatQueueInfo 返回队列信息的格式化字符串表示
func FormatQueueInfo(info QueueInfo) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Queue: %s\n", info.Name))
	sb.WriteString(fmt.Sprintf("ID: %s\n", info.ID))
	sb.WriteString(fmt.Sprintf("Kind: %s (wake %s)\n", info.Kind, info.WakePolicy))
	sb.WriteString(fmt.Sprintf("Size: %d", info.Stats.Size))
	if info.Stats.Capacity > 0 {
		sb.WriteString(fmt.Sprintf("/%d", info.Stats.Capacity))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Created: %s\n", formatTimeAgo(info.CreatedAt)))
	sb.WriteString(fmt.Sprintf("Operations: %d pushed, %d popped\n",
		info.Stats.Pushed, info.Stats.Popped))

	return sb.String()
}

// FormatQueueStats 返回队列统计信息的格式化字符串表示
func FormatQueueStats(stats queue.Stats) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %d\n", stats.Size))
	if stats.Capacity > 0 {
		sb.WriteString(fmt.Sprintf("Capacity: %d (%.1f%% utilized)\n",
			stats.Capacity, stats.Utilization()*100))
	} else {
		sb.WriteString("Capacity: unbounded\n")
	}

	sb.WriteString(fmt.Sprintf("Created: %s\n", formatTimeAgo(stats.CreatedAt)))
	sb.WriteString(fmt.Sprintf("Operations: %d pushed, %d popped\n",
		stats.Pushed, stats.Popped))

	if stats.PushBlocks > 0 || stats.PopBlocks > 0 {
		sb.WriteString(fmt.Sprintf("Blocks: %d push, %d pop\n",
			stats.PushBlocks, stats.PopBlocks))
	}

	if stats.PushTimeouts > 0 || stats.PopTimeouts > 0 {
		sb.WriteString(fmt.Sprintf("Timeouts: %d push, %d pop\n",
			stats.PushTimeouts, stats.PopTimeouts))
	}

	if stats.Canceled > 0 {
		sb.WriteString(fmt.Sprintf("Canceled: %d\n", stats.Canceled))
	}

	if stats.EmptyRejects > 0 || stats.FullRejects > 0 {
		sb.WriteString(fmt.Sprintf("Rejected: %d empty, %d full\n",
			stats.EmptyRejects, stats.FullRejects))
	}

	if stats.Wakeups > 0 {
		sb.WriteString(fmt.Sprintf("Wakeups: %d (%d spurious)\n",
			stats.Wakeups, stats.SpuriousWakeups))
	}

	return sb.String()
}

// formatTimeAgo 将时间格式化为人类可读的"多久之前"字符串
func formatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	seconds := int(duration.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%d seconds ago", seconds)
	}

	minutes := int(duration.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%d minutes ago", minutes)
	}

	hours := int(duration.Hours())
	if hours < 24 {
		return fmt.Sprintf("%d hours ago", hours)
	}

	days := int(duration.Hours() / 24)
	return fmt.Sprintf("%d days ago", days)
}

// ParseItems 解析以逗号分隔的项目字符串，忽略空项
func ParseItems(itemsStr string) []string {
	var items []string
	for _, item := range strings.Split(itemsStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// FormatItems 将项目切片格式化为以逗号分隔的字符串
func FormatItems(items []string) string {
	return strings.Join(items, ",")
}
