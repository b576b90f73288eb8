package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"volboot/internal/service/param"
	"volboot/internal/service/volume"
)

// resolveStackName はコマンドライン引数または環境変数からスタック名を決定し、グローバル変数 stackName にセットする
func resolveStackName() {
	if stackName != "" {
		fmt.Println("🔍 -Sオプションで指定されたスタック名 '" + stackName + "' を使用します")
		return
	}
	envStack := os.Getenv("AWS_STACK_NAME")
	if envStack != "" {
		fmt.Println("🔍 環境変数 AWS_STACK_NAME の値 '" + envStack + "' を使用します")
		stackName = envStack
	}
	// どちらもなければstackNameは空のまま
}

// resolveEnv はコマンドライン引数または環境変数からデプロイ環境を決定し、グローバル変数 deployEnv にセットする
func resolveEnv() error {
	if deployEnv == "" {
		deployEnv = os.Getenv("VOLBOOT_ENV")
		if deployEnv != "" {
			fmt.Println("🔍 環境変数 VOLBOOT_ENV の値 '" + deployEnv + "' を使用します")
		}
	}
	if deployEnv == "" {
		return errors.New("❌ エラー: 環境が指定されていません。-eオプションまたは VOLBOOT_ENV 環境変数を指定してください")
	}
	if _, err := volume.ParseEnv(deployEnv); err != nil {
		return fmt.Errorf("❌ エラー: %w", err)
	}
	return nil
}

// resolveVolumeID はボリュームIDを フラグ → 環境変数 VOLBOOT_VOLUME_ID → Parameter Store の順に決定する
// fromParam が false の場合はParameter Storeを参照しない
func resolveVolumeID(ctx context.Context, flagValue string, fromParam bool) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv("VOLBOOT_VOLUME_ID"); v != "" {
		fmt.Println("🔍 環境変数 VOLBOOT_VOLUME_ID の値 '" + v + "' を使用します")
		return v, nil
	}
	if !fromParam {
		return "", errors.New("❌ エラー: ボリュームIDが指定されていません。-vオプション、VOLBOOT_VOLUME_ID 環境変数、または --param を指定してください")
	}

	if err := resolveEnv(); err != nil {
		return "", err
	}
	name := param.Name(deployEnv)
	fmt.Printf("🔍 Parameter Store %s からボリュームIDを取得します\n", name)
	id, err := param.GetVolumeID(ctx, awsClients.Ssm(), name)
	if err != nil {
		return "", fmt.Errorf("❌ ボリュームIDの取得エラー: %w", err)
	}
	return id, nil
}

// resolveInstanceID は接続先インスタンスIDを フラグ → CloudFormationスタック → インスタンスメタデータ の順に決定する
func resolveInstanceID(ctx context.Context, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	resolveStackName()
	if stackName != "" {
		return volume.InstanceFromStack(ctx, awsClients.Cfn(), stackName)
	}

	fmt.Println("🔍 インスタンスメタデータから自身のインスタンスIDを取得します")
	identity, err := volume.InstanceFromMetadata(ctx, awsClients.Imds())
	if err != nil {
		return "", fmt.Errorf("%w（-i または -S を指定してください）", err)
	}
	return identity.InstanceId, nil
}
