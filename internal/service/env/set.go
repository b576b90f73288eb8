package env

import "fmt"

// GetExportCommand は環境変数をエクスポートするコマンドを返す
func GetExportCommand(variable, value string) (string, error) {
	if err := ValidateVariable(variable); err != nil {
		return "", err
	}

	v := SupportedVariables[variable]
	if v.Validate != nil {
		if err := v.Validate(value); err != nil {
			return "", fmt.Errorf("❌ エラー: %s の値が不正です: %w", v.Name, err)
		}
	}
	return fmt.Sprintf("export %s=%s", v.Name, value), nil
}
