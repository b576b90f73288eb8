package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"volboot/internal/service/env"
)

// EnvCmd represents the env command
var EnvCmd = &cobra.Command{
	Use:   "env",
	Short: "volboot環境変数の管理コマンド",
	Long: `volbootが参照する環境変数を管理するためのコマンド群です。
プロファイル(AWS_PROFILE)、スタック名(AWS_STACK_NAME)、デプロイ環境(VOLBOOT_ENV)、
ボリュームID(VOLBOOT_VOLUME_ID)を設定・表示・削除できます。`,
}

var (
	envProfile   string
	envStackName string
	envDeployEnv string
	envVolumeId  string
)

// envFlags はフラグ名と環境変数の短縮名の対応（表示順）
var envFlags = []struct {
	flag     string
	variable string
}{
	{"profile", "profile"},
	{"stack", "stack"},
	{"env", "env"},
	{"volume", "volume"},
}

var envSetCmd = &cobra.Command{
	Use:   "set",
	Short: "環境変数の設定方法を表示",
	Long: `指定した環境変数を設定するためのexportコマンドを表示します。

例:
  ` + AppName + ` env set -P my-profile
  ` + AppName + ` env set --env prod --volume vol-0123456789abcdef0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := map[string]string{
			"profile": envProfile,
			"stack":   envStackName,
			"env":     envDeployEnv,
			"volume":  envVolumeId,
		}

		var commands []string
		for _, f := range envFlags {
			value := values[f.variable]
			if value == "" {
				continue
			}
			exportCmd, err := env.GetExportCommand(f.variable, value)
			if err != nil {
				return err
			}
			commands = append(commands, exportCmd)
		}

		if len(commands) == 0 {
			return fmt.Errorf("❌ エラー: -P、-S、--env、--volume のいずれかを指定してください")
		}

		fmt.Println("✅ 以下のコマンドを実行して環境変数を設定してください：")
		for _, c := range commands {
			fmt.Println(c)
		}
		return nil
	},
}

var envShowCmd = &cobra.Command{
	Use:   "show",
	Short: "環境変数の現在値を表示",
	Long: `現在設定されているvolboot関連の環境変数を表示します。

例:
  ` + AppName + ` env show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env.ShowAllVariables(os.Stdout)
		return nil
	},
}

var envUnsetCmd = &cobra.Command{
	Use:   "unset",
	Short: "環境変数の削除方法を表示",
	Long: `指定した環境変数を削除するためのunsetコマンドを表示します。

例:
  ` + AppName + ` env unset -P
  ` + AppName + ` env unset --env --volume`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var commands []string
		for _, f := range envFlags {
			unset, _ := cmd.Flags().GetBool(f.flag)
			if !unset {
				continue
			}
			unsetCmd, err := env.GetUnsetCommand(f.variable)
			if err != nil {
				return err
			}
			commands = append(commands, unsetCmd)
		}

		if len(commands) == 0 {
			return fmt.Errorf("❌ エラー: -P、-S、--env、--volume のいずれかを指定してください")
		}

		fmt.Println("✅ 以下のコマンドを実行して環境変数を削除してください：")
		for _, c := range commands {
			fmt.Println(c)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(EnvCmd)
	EnvCmd.AddCommand(envSetCmd)
	EnvCmd.AddCommand(envShowCmd)
	EnvCmd.AddCommand(envUnsetCmd)

	// env set のフラグ
	envSetCmd.Flags().StringVarP(&envProfile, "profile", "P", "", "設定するプロファイル名")
	envSetCmd.Flags().StringVarP(&envStackName, "stack", "S", "", "設定するスタック名")
	envSetCmd.Flags().StringVar(&envDeployEnv, "env", "", "設定するデプロイ環境 (dev または prod)")
	envSetCmd.Flags().StringVar(&envVolumeId, "volume", "", "設定するボリュームID")
	envSetCmd.MarkFlagsOneRequired("profile", "stack", "env", "volume")

	// env show のフラグは不要（常に全て表示）

	// env unset のフラグ
	envUnsetCmd.Flags().BoolP("profile", "P", false, "プロファイル名を削除")
	envUnsetCmd.Flags().BoolP("stack", "S", false, "スタック名を削除")
	envUnsetCmd.Flags().Bool("env", false, "デプロイ環境を削除")
	envUnsetCmd.Flags().Bool("volume", false, "ボリュームIDを削除")
	envUnsetCmd.MarkFlagsOneRequired("profile", "stack", "env", "volume")
}
