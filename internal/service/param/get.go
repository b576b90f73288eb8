package param

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// GetVolumeID はParameter StoreからボリュームIDを取得する
func GetVolumeID(ctx context.Context, client SSMAPI, name string) (string, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name: aws.String(name),
	})
	if isNotFound(err) {
		return "", fmt.Errorf("%w: %s", ErrParameterNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("パラメータ %s の取得に失敗: %w", name, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", fmt.Errorf("%w: %s の値が空です", ErrParameterNotFound, name)
	}

	return aws.ToString(out.Parameter.Value), nil
}
