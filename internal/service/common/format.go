package common

import (
	"fmt"
	"time"
)

// FormatGiB はGiB単位のサイズを表示用に変換する関数
func FormatGiB(size int32) string {
	if size >= 1024 && size%1024 == 0 {
		return fmt.Sprintf("%d TiB", size/1024)
	}
	return fmt.Sprintf("%d GiB", size)
}

// FormatTime は時刻をフォーマットする関数
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "不明"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// OrDash は空文字の場合に "-" を返す
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
