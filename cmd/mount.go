package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"volboot/internal/service/bootstrap"
)

var (
	mountVolumeId  string
	mountPoint     string
	mountLabel     string
	mountFSType    string
	mountOwner     string
	mountMode      string
	mountFromParam bool
	mountTimeout   time.Duration
	mountFstab     string
)

// mountCmd represents the mount command
var mountCmd = &cobra.Command{
	Use:   "mount",
	Short: "EBSデータボリュームを特定してマウントする",
	Long: `接続済みのEBSボリュームをNVMeシリアル番号から特定し、
未フォーマットの場合だけファイルシステムを作成して /etc/fstab 経由でマウントします。
何度実行しても同じ結果になるため、インスタンス起動時に毎回実行できます。

ボリュームIDは -v、環境変数 VOLBOOT_VOLUME_ID、--param (Parameter Store) の順に参照します。

例:
  ` + AppName + ` mount -v vol-0123456789abcdef0
  ` + AppName + ` mount --param -e prod --owner 1000:1000
  ` + AppName + ` mount -v vol-0123456789abcdef0 -m /srv/data --fstype xfs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if mountTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, mountTimeout)
			defer cancel()
		}

		if mountFromParam {
			// インスタンスロールで認証するためプロファイルは必須にしない
			if profile == "" {
				profile = os.Getenv("AWS_PROFILE")
			}
			if err := loadAwsConfig(cmd); err != nil {
				return err
			}
		}

		volumeId, err := resolveVolumeID(ctx, mountVolumeId, mountFromParam)
		if err != nil {
			return err
		}

		uid, gid, err := parseOwner(mountOwner)
		if err != nil {
			return err
		}
		mode, err := parseMode(mountMode)
		if err != nil {
			return err
		}

		fmt.Printf("🔍 ボリューム %s (シリアル: %s) を検索中...\n", volumeId, bootstrap.SerialKey(volumeId))
		b, err := bootstrap.New(bootstrap.Options{
			VolumeID:   volumeId,
			MountPoint: mountPoint,
			Label:      mountLabel,
			FSType:     mountFSType,
			UID:        uid,
			GID:        gid,
			Mode:       mode,
			FstabPath:  mountFstab,
			Log:        logrus.WithField("component", "bootstrap"),
		})
		if err != nil {
			return fmt.Errorf("❌ エラー: ブートシーケンスの設定が不正です: %w", err)
		}

		res, err := b.Run(ctx)
		if err != nil {
			return fmt.Errorf("❌ マウント処理エラー: %w", err)
		}

		if res.Formatted {
			fmt.Printf("💾 %s を %s でフォーマットしました\n", res.Device.Path, res.FSType)
		} else {
			fmt.Printf("📋 %s は既に %s でフォーマット済みです\n", res.Device.Path, res.FSType)
		}
		if res.EntryAdded {
			fmt.Printf("✅ fstab にエントリを追加しました (UUID=%s)\n", res.UUID)
		}
		fmt.Printf("✅ %s を %s にマウントしました\n", res.Device.Path, b.Options().MountPoint)
		return nil
	},
	SilenceUsage: true,
}

// parseOwner は "uid:gid" 形式の所有者指定を解析する
func parseOwner(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("❌ エラー: --owner は uid:gid 形式で指定してください: %s", s)
	}
	uid, err := strconv.Atoi(parts[0])
	if err != nil || uid < 0 {
		return 0, 0, fmt.Errorf("❌ エラー: 不正なuidです: %s", parts[0])
	}
	gid, err := strconv.Atoi(parts[1])
	if err != nil || gid < 0 {
		return 0, 0, fmt.Errorf("❌ エラー: 不正なgidです: %s", parts[1])
	}
	return uid, gid, nil
}

// parseMode は8進数のパーミッション指定を解析する
func parseMode(s string) (os.FileMode, error) {
	m, err := strconv.ParseUint(s, 8, 32)
	if err != nil || m > 0o7777 {
		return 0, fmt.Errorf("❌ エラー: 不正なパーミッションです: %s", s)
	}
	return os.FileMode(m), nil
}

func init() {
	RootCmd.AddCommand(mountCmd)

	mountCmd.Flags().StringVarP(&mountVolumeId, "volume", "v", "", "EBSボリュームID")
	mountCmd.Flags().StringVarP(&mountPoint, "mount-point", "m", bootstrap.DefaultMountPoint, "マウント先ディレクトリ")
	mountCmd.Flags().StringVar(&mountLabel, "label", bootstrap.DefaultLabel, "ファイルシステムのラベル")
	mountCmd.Flags().StringVar(&mountFSType, "fstype", bootstrap.DefaultFSType, "作成するファイルシステム (ext4 または xfs)")
	mountCmd.Flags().StringVar(&mountOwner, "owner", "0:0", "マウント先の所有者 (uid:gid)")
	mountCmd.Flags().StringVar(&mountMode, "mode", "0755", "マウント先のパーミッション (8進数)")
	mountCmd.Flags().BoolVar(&mountFromParam, "param", false, "Parameter Store (/volboot/<env>/volume-id) からボリュームIDを取得する")
	mountCmd.Flags().DurationVar(&mountTimeout, "timeout", 0, "全体のタイムアウト (例: 2m、0は無制限)")
	mountCmd.Flags().StringVar(&mountFstab, "fstab", bootstrap.DefaultFstabPath, "fstabのパス")
	_ = mountCmd.Flags().MarkHidden("fstab")
}
