package models

import (
	"fmt"
	"time"
)

// HistoryEvent is one generated historical record. Immutable once
// fetched; superseded wholesale on the next full reload.
type HistoryEvent struct {
	Year           string   `json:"year"`
	Month          string   `json:"month"`
	Day            string   `json:"day"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Keywords       []string `json:"keywords"`
	VisualPrompt   string   `json:"visualPrompt"`
	ThemeColor     string   `json:"themeColor"`
	SecondaryColor string   `json:"secondaryColor"`
}

func (e *HistoryEvent) Validate() error {
	if e.Year == "" || e.Month == "" || e.Day == "" {
		return fmt.Errorf("event %q: missing date fields", e.Title)
	}
	if e.Title == "" || e.Description == "" {
		return fmt.Errorf("event for %s-%s-%s: missing title or description", e.Year, e.Month, e.Day)
	}
	if len(e.Keywords) == 0 {
		return fmt.Errorf("event %q: no keywords", e.Title)
	}
	return nil
}

// FallbackEvent is the built-in record served when no credential is
// configured or the remote text generation fails with no cached result.
func FallbackEvent(t time.Time) HistoryEvent {
	month := int(t.Month())
	day := t.Day()
	return HistoryEvent{
		Year:        "2007",
		Month:       fmt.Sprintf("%d", month),
		Day:         fmt.Sprintf("%d", day),
		Title:       fmt.Sprintf("历史上的%d月%d日", month, day),
		Description: "史蒂夫·乔布斯在旧金山莫斯康展览中心举办的 Macworld 2007 大会上，正式发布了第一代 iPhone。这款设备彻底改变了移动电话行业，将手机、iPod 和互联网通讯设备完美融合，开启了智能手机的新时代。",
		Category:    "科技",
		Keywords:    []string{"创新", "智能手机", "苹果", "变革"},
		VisualPrompt: "A minimalist line art illustration of the first generation iPhone on a clean table, schematic style.",
		ThemeColor:     "#007AFF",
		SecondaryColor: "#5AC8FA",
	}
}
