package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"volboot/internal/service/param"
)

var paramVolumeId string

// ParamCmd represents the param command
var ParamCmd = &cobra.Command{
	Use:   "param",
	Short: "Parameter StoreのボリュームID操作コマンド",
	Long: `起動時にマウントするボリュームIDを Parameter Store (/volboot/<env>/volume-id) で受け渡すためのコマンド群です。`,
}

var paramGetCmd = &cobra.Command{
	Use:   "get",
	Short: "登録されているボリュームIDを表示する",
	Long: `Parameter Storeに登録されているボリュームIDを表示します。

例:
  ` + AppName + ` param get -e prod`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := resolveEnv(); err != nil {
			return err
		}
		id, err := param.GetVolumeID(cmd.Context(), awsClients.Ssm(), param.Name(deployEnv))
		if err != nil {
			return fmt.Errorf("❌ ボリュームIDの取得エラー: %w", err)
		}
		fmt.Println(id)
		return nil
	},
	SilenceUsage: true,
}

var paramPutCmd = &cobra.Command{
	Use:   "put",
	Short: "ボリュームIDを登録する",
	Long: `ボリュームIDをParameter Storeに登録します（既存の値は上書きされます）。

例:
  ` + AppName + ` param put -e prod -v vol-0123456789abcdef0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := resolveEnv(); err != nil {
			return err
		}
		id, err := resolveVolumeID(cmd.Context(), paramVolumeId, false)
		if err != nil {
			return err
		}
		if _, err := param.PublishVolumeID(cmd.Context(), awsClients.Ssm(), deployEnv, id); err != nil {
			return fmt.Errorf("❌ ボリュームIDの登録エラー: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(ParamCmd)
	ParamCmd.AddCommand(paramGetCmd)
	ParamCmd.AddCommand(paramPutCmd)

	paramPutCmd.Flags().StringVarP(&paramVolumeId, "volume", "v", "", "登録するEBSボリュームID")
}
