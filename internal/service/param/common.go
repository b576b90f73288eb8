package param

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// Name は環境ごとのボリュームIDパラメータ名を返す
// 例: dev → /volboot/dev/volume-id
func Name(env string) string {
	return normalizeParameterName(DefaultPrefix, env+"/volume-id")
}

// normalizeParameterName はプレフィックスとパラメータ名を正しく結合する
func normalizeParameterName(prefix, name string) string {
	if prefix == "" {
		return name
	}

	// プレフィックス末尾の/を除去
	prefix = strings.TrimSuffix(prefix, "/")

	// パラメータ名先頭の/を確保
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}

	return prefix + name
}

// isNotFound はSSMのParameterNotFoundエラーかどうかを判定する
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ParameterNotFound"
}
