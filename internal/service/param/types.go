package param

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// DefaultPrefix はボリュームIDを登録するパラメータのプレフィックス
const DefaultPrefix = "/volboot"

// ErrParameterNotFound はパラメータが存在しない場合のエラー
var ErrParameterNotFound = errors.New("パラメータが見つかりません")

// SSMAPI はParameter Storeの読み書きに使うSSM APIのサブセット
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}
