package env

import (
	"fmt"
	"strings"
)

// ValidateVariable は変数名が有効かチェック
func ValidateVariable(variable string) error {
	if _, ok := SupportedVariables[variable]; !ok {
		return fmt.Errorf("❌ エラー: '%s' はサポートされていない変数です。%s のいずれかを指定してください",
			variable, strings.Join(order, ", "))
	}
	return nil
}
