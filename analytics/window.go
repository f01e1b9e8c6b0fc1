package analytics

import (
	"errors"
	"time"
)

// 统计窗口类型
const (
	RangeMonth   = "month"
	RangeLast30  = "30d"
	RangeCustom  = "custom"
	trailingDays = 30
)

// ErrInvalidWindow 统计窗口参数不合法
var ErrInvalidWindow = errors.New("无效的统计时间范围")

// Window 统计窗口 [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindow 当前自然月：[本月 1 日 00:00, 下月 1 日 00:00)
func MonthWindow(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// TrailingWindow 最近 days 天：[今天-days 00:00, 明天 00:00)
func TrailingWindow(now time.Time, days int) Window {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return Window{Start: today.AddDate(0, 0, -days), End: today.AddDate(0, 0, 1)}
}

// ParseWindow 解析统计窗口
// custom 的 start/end 为 YYYY-MM-DD，end 当天包含在内
func ParseWindow(rangeName, start, end string, now time.Time) (Window, error) {
	switch rangeName {
	case RangeMonth:
		return MonthWindow(now), nil
	case RangeLast30:
		return TrailingWindow(now, trailingDays), nil
	case RangeCustom:
		s, err := time.ParseInLocation(dayLayout, start, now.Location())
		if err != nil {
			return Window{}, ErrInvalidWindow
		}
		e, err := time.ParseInLocation(dayLayout, end, now.Location())
		if err != nil {
			return Window{}, ErrInvalidWindow
		}
		w := Window{Start: s, End: e.AddDate(0, 0, 1)}
		if !w.Start.Before(w.End) {
			return Window{}, ErrInvalidWindow
		}
		return w, nil
	default:
		return Window{}, ErrInvalidWindow
	}
}
