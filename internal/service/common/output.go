package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Output は表示の出力先（テストで差し替える）
var Output io.Writer = os.Stdout

// GenerateFilteredTitle はフィルタ条件に基づいてタイトルを生成
func GenerateFilteredTitle(resourceType string, conditions ...string) string {
	// 空文字列を除外
	var validConditions []string
	for _, cond := range conditions {
		if cond != "" {
			validConditions = append(validConditions, cond)
		}
	}

	if len(validConditions) == 0 {
		return fmt.Sprintf("%s一覧", resourceType)
	}

	return fmt.Sprintf("%s%s一覧", strings.Join(validConditions, ""), resourceType)
}

// PrintTable はテーブル形式でデータを表示する
// 全角文字を含んでも列が揃うよう表示幅で計算する
func PrintTable(title string, columns []TableColumn, data [][]string) {
	if title != "" {
		fmt.Fprintf(Output, "\n%s:\n", title)
	}

	// 各列の最大幅を計算（ヘッダーとデータの中で最大値を取得）
	colWidths := make([]int, len(columns))
	for i, col := range columns {
		colWidths[i] = runewidth.StringWidth(col.Header)
	}
	for _, row := range data {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := runewidth.StringWidth(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}

	// ヘッダー表示
	for i, col := range columns {
		fmt.Fprintf(Output, "%s ", runewidth.FillRight(col.Header, colWidths[i]))
	}
	fmt.Fprintln(Output)

	// 区切り線
	for i := range columns {
		fmt.Fprintf(Output, "%s ", strings.Repeat("-", colWidths[i]))
	}
	fmt.Fprintln(Output)

	// データ行
	for _, row := range data {
		for i, cell := range row {
			if i < len(columns) {
				fmt.Fprintf(Output, "%s ", runewidth.FillRight(cell, colWidths[i]))
			}
		}
		fmt.Fprintln(Output)
	}
}

// DisplayList は汎用的なリスト表示関数
func DisplayList[T any](
	items []T,
	title string,
	toTableData func([]T) ([]TableColumn, [][]string),
	opts *DisplayOptions,
) {
	// デフォルトオプション
	if opts == nil {
		opts = &DisplayOptions{}
	}
	if opts.EmptyMessage == "" {
		opts.EmptyMessage = "リソースが見つかりませんでした"
	}

	// フィルタ条件がある場合はタイトルに追加
	if len(opts.FilterMessages) > 0 {
		title = GenerateFilteredTitle(title, opts.FilterMessages...)
	}

	// 空の場合の処理
	if len(items) == 0 {
		fmt.Fprintln(Output, opts.EmptyMessage)
		return
	}

	// テーブル表示
	columns, data := toTableData(items)
	PrintTable(title, columns, data)

	// 件数表示
	if opts.ShowCount {
		fmt.Fprintf(Output, "\n合計: %d件\n", len(items))
	}
}
