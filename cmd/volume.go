package cmd

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/spf13/cobra"

	"volboot/internal/service/param"
	"volboot/internal/service/volume"
)

var (
	volumeId         string
	volumeInstanceId string
	volumeName       string
	volumeZone       string
	volumeSize       int32
	volumeType       string
	volumeKmsKeyId   string
	volumePublish    bool
	volumeDevice     string
	volumeTimeout    time.Duration
	volumeFromParam  bool
	volumeNameFilter string
)

// VolumeCmd represents the volume command
var VolumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "EBSデータボリューム操作コマンド",
	Long: `volbootが管理するEBSデータボリュームを操作するためのコマンド群です。
ボリュームには Name / Env / ManagedBy=volboot タグが付与されます。`,
}

var volumeResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "環境のポリシーに従ってボリュームを解決する",
	Long: `環境ごとのポリシーに従ってEBSボリュームを解決します。
  dev : 常に新しいボリュームを作成します
  prod: タグが一致する既存ボリュームを再利用し、なければ作成します

--publish を指定すると、解決したボリュームIDを Parameter Store (/volboot/<env>/volume-id) に登録します。

例:
  ` + AppName + ` volume resolve -e prod --az ap-northeast-1a
  ` + AppName + ` volume resolve -e dev -i i-1234567890abcdef0 --publish`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := resolveEnv(); err != nil {
			return err
		}

		policy, err := volume.PolicyFor(deployEnv)
		if err != nil {
			return fmt.Errorf("❌ エラー: %w", err)
		}

		zone := volumeZone
		if zone == "" && volumeInstanceId != "" {
			zone, err = volume.InstanceZone(ctx, awsClients.Ec2(), volumeInstanceId)
			if err != nil {
				return fmt.Errorf("❌ インスタンスのAZ取得エラー: %w", err)
			}
		}

		fmt.Printf("🔍 %s環境のボリュームを解決します (ポリシー: %s)\n", deployEnv, policy.Name())
		res, err := policy.Resolve(ctx, awsClients.Ec2(), volume.Spec{
			Env:              deployEnv,
			Name:             volumeName,
			AvailabilityZone: zone,
			SizeGiB:          volumeSize,
			VolumeType:       types.VolumeType(volumeType),
			KmsKeyId:         volumeKmsKeyId,
		})
		if err != nil {
			return fmt.Errorf("❌ ボリューム解決エラー: %w", err)
		}

		fmt.Printf("✅ ボリューム: %s (%s, %s)\n", res.Volume.VolumeId, res.Volume.AvailabilityZone, res.Volume.State)

		if volumePublish {
			if _, err := param.PublishVolumeID(ctx, awsClients.Ssm(), deployEnv, res.Volume.VolumeId); err != nil {
				return fmt.Errorf("❌ ボリュームIDの登録エラー: %w", err)
			}
		}
		return nil
	},
	SilenceUsage: true,
}

var volumeAttachCmd = &cobra.Command{
	Use:   "attach",
	Short: "ボリュームをEC2インスタンスに接続する",
	Long: `EBSボリュームをEC2インスタンスに接続し、接続完了まで待機します。
インスタンスが起動中であること、ボリュームが利用可能であること、AZが一致することを確認してから接続します。
既に同じインスタンスに接続済みの場合は何もしません。

インスタンスIDは -i、-S (CloudFormationスタック)、インスタンスメタデータの順に参照します。

例:
  ` + AppName + ` volume attach -v vol-0123456789abcdef0 -i i-1234567890abcdef0
  ` + AppName + ` volume attach --param -e prod -S my-stack`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := resolveVolumeID(ctx, volumeId, volumeFromParam)
		if err != nil {
			return err
		}
		instanceId, err := resolveInstanceID(ctx, volumeInstanceId)
		if err != nil {
			return fmt.Errorf("❌ 接続先インスタンスの特定エラー: %w", err)
		}

		_, err = volume.Attach(ctx, awsClients.Ec2(), volume.AttachOptions{
			VolumeId:   id,
			InstanceId: instanceId,
			DeviceName: volumeDevice,
			Timeout:    volumeTimeout,
			Progress:   true,
		})
		if err != nil {
			return fmt.Errorf("❌ ボリューム接続エラー: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

var volumeLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "volbootが管理するボリューム一覧を表示する",
	Long: `ManagedBy=volboot タグが付いたEBSボリューム一覧を表示します。
-e で環境、--name でNameタグ（ワイルドカード可）を絞り込めます。

例:
  ` + AppName + ` volume ls
  ` + AppName + ` volume ls -e prod --name 'data*'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := volume.ListOptions{Env: deployEnv, NamePattern: volumeNameFilter}
		volumes, err := volume.ListVolumes(cmd.Context(), awsClients.Ec2(), opts)
		if err != nil {
			return fmt.Errorf("❌ ボリューム一覧取得エラー: %w", err)
		}
		volume.DisplayVolumes(volumes, opts)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(VolumeCmd)
	VolumeCmd.AddCommand(volumeResolveCmd)
	VolumeCmd.AddCommand(volumeAttachCmd)
	VolumeCmd.AddCommand(volumeLsCmd)

	// volume resolve のフラグ
	volumeResolveCmd.Flags().StringVar(&volumeName, "name", volume.DefaultName, "Nameタグの値")
	volumeResolveCmd.Flags().StringVar(&volumeZone, "az", "", "アベイラビリティゾーン（作成時に必要）")
	volumeResolveCmd.Flags().StringVarP(&volumeInstanceId, "instance", "i", "", "AZを合わせるEC2インスタンスID")
	volumeResolveCmd.Flags().Int32Var(&volumeSize, "size", volume.DefaultSizeGiB, "作成時のサイズ (GiB)")
	volumeResolveCmd.Flags().StringVar(&volumeType, "type", string(volume.DefaultVolumeType), "作成時のボリュームタイプ")
	volumeResolveCmd.Flags().StringVar(&volumeKmsKeyId, "kms-key-id", "", "暗号化に使うKMSキーID（未指定の場合はデフォルトキー）")
	volumeResolveCmd.Flags().BoolVar(&volumePublish, "publish", false, "解決したボリュームIDをParameter Storeに登録する")

	// volume attach のフラグ
	volumeAttachCmd.Flags().StringVarP(&volumeId, "volume", "v", "", "EBSボリュームID")
	volumeAttachCmd.Flags().StringVarP(&volumeInstanceId, "instance", "i", "", "EC2インスタンスID")
	volumeAttachCmd.Flags().StringVarP(&stackName, "stack", "S", "", "CloudFormationスタック名")
	volumeAttachCmd.Flags().StringVar(&volumeDevice, "device", volume.DefaultDeviceName, "デバイス名")
	volumeAttachCmd.Flags().DurationVar(&volumeTimeout, "timeout", volume.DefaultAttachWait, "接続待機のタイムアウト")
	volumeAttachCmd.Flags().BoolVar(&volumeFromParam, "param", false, "Parameter Store (/volboot/<env>/volume-id) からボリュームIDを取得する")

	// volume ls のフラグ
	volumeLsCmd.Flags().StringVar(&volumeNameFilter, "name", "", "Nameタグの絞り込み（ワイルドカード可）")
}
