package param

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// PublishVolumeID はボリュームIDをParameter Storeに登録する（既存値は上書き）
func PublishVolumeID(ctx context.Context, client SSMAPI, env, volumeId string) (string, error) {
	if volumeId == "" {
		return "", errors.New("ボリュームIDが指定されていません")
	}
	name := Name(env)

	_, err := client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:        aws.String(name),
		Value:       aws.String(volumeId),
		Type:        types.ParameterTypeString,
		Overwrite:   aws.Bool(true),
		Description: aws.String("volbootが起動時にマウントするEBSボリュームID"),
	})
	if err != nil {
		return "", fmt.Errorf("パラメータ %s の登録に失敗: %w", name, err)
	}

	fmt.Printf("✅ %s に %s を登録しました\n", name, volumeId)
	return name, nil
}
