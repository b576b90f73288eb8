package env

import (
	"errors"
	"strings"

	"volboot/internal/service/volume"
)

// Variable は環境変数の情報を表す構造体
type Variable struct {
	Name        string // 環境変数名 (e.g., VOLBOOT_VOLUME_ID)
	ShortName   string // 短縮名 (e.g., volume)
	Description string // 説明
	// Validate は値を検証する（nilの場合は検証しない）
	Validate func(value string) error
}

// SupportedVariables はサポートされている環境変数のマップ
var SupportedVariables = map[string]Variable{
	"profile": {
		Name:        "AWS_PROFILE",
		ShortName:   "profile",
		Description: "プロファイル",
	},
	"stack": {
		Name:        "AWS_STACK_NAME",
		ShortName:   "stack",
		Description: "スタック名",
	},
	"env": {
		Name:        "VOLBOOT_ENV",
		ShortName:   "env",
		Description: "デプロイ環境",
		Validate: func(value string) error {
			_, err := volume.ParseEnv(value)
			return err
		},
	},
	"volume": {
		Name:        "VOLBOOT_VOLUME_ID",
		ShortName:   "volume",
		Description: "ボリュームID",
		Validate: func(value string) error {
			if !strings.HasPrefix(value, "vol-") {
				return errors.New("ボリュームIDは vol- で始まる必要があります")
			}
			return nil
		},
	},
}

// order は表示順
var order = []string{"profile", "stack", "env", "volume"}
