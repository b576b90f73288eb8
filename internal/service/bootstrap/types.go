package bootstrap

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"volboot/internal/cli"
)

// デフォルト値
const (
	DefaultMountPoint   = "/data"
	DefaultLabel        = "data"
	DefaultFSType       = "ext4"
	DefaultMountOptions = "defaults,nofail"
	DefaultMode         = os.FileMode(0o755)
	DefaultSysRoot      = "/sys"
	DefaultDevRoot      = "/dev"
	DefaultFstabPath    = "/etc/fstab"
)

// 致命的エラー（いずれもブートシーケンスを中断する）
var (
	ErrInvalidVolumeID = errors.New("ボリュームIDが指定されていません")
	ErrDeviceNotFound  = errors.New("対象ボリュームのデバイスが見つかりません")
	ErrFormat          = errors.New("ファイルシステムの作成に失敗しました")
	ErrMount           = errors.New("マウントに失敗しました")

	// ErrUnsupportedFilesystem はデバイス上に直接マウントできないメタデータがある場合のエラー
	// (LVM2_member, crypto_LUKS, swap など)。データ保護のためフォーマットもしない
	ErrUnsupportedFilesystem = errors.New("マウントできない種別のメタデータがあります")
)

// Step はブートシーケンスの各ステップ名
type Step string

const (
	StepDiscover Step = "discover"
	StepFormat   Step = "format"
	StepMount    Step = "mount"
)

// FilesystemState はデバイス上のファイルシステムの状態
type FilesystemState int

const (
	Unformatted FilesystemState = iota
	Formatted
)

func (s FilesystemState) String() string {
	if s == Formatted {
		return "formatted"
	}
	return "unformatted"
}

// Device はシリアル番号で特定したブロックデバイス
type Device struct {
	// Controller はNVMeコントローラ名 (e.g. nvme1)
	Controller string
	// Index はコントローラの列挙インデックス
	Index int
	// Serial はコントローラが報告したシリアル番号
	Serial string
	// DiskPath はディスク全体のデバイスパス (e.g. /dev/nvme1n1)
	DiskPath string
	// Path は実際に使うデバイスパス（第1パーティションがあればそちら）
	Path string
	// Partitioned は第1パーティションを採用したかどうか
	Partitioned bool
}

// MountEntry はfstabに書き込むマウント定義
type MountEntry struct {
	UUID       string
	MountPoint string
	FSType     string
	Options    string
	Dump       int
	Pass       int
}

// String はfstab形式の1行を返す
func (e MountEntry) String() string {
	return fmt.Sprintf("UUID=%s %s %s %s %d %d", e.UUID, e.MountPoint, e.FSType, e.Options, e.Dump, e.Pass)
}

// Result はブートシーケンスの実行結果
type Result struct {
	Device     Device
	UUID       string
	FSType     string // デバイス上の実際のファイルシステム種別
	Formatted  bool   // 今回フォーマットを実行したか
	EntryAdded bool   // 今回fstabへ追記したか
}

// Options はブートシーケンスの設定
type Options struct {
	// VolumeID は対象EBSボリュームID (e.g. vol-0123456789abcdef0)
	VolumeID string
	// MountPoint はマウント先ディレクトリ
	MountPoint string
	// Label はファイルシステムのラベル
	Label string
	// FSType は作成するファイルシステム (ext4 or xfs)
	FSType string
	// MountOptions はfstabに書くマウントオプション
	MountOptions string
	// UID GID Mode はマウント先に設定する所有者とパーミッション
	UID  int
	GID  int
	Mode os.FileMode

	// SysRoot DevRoot FstabPath はテスト用に差し替え可能なOS上のパス
	SysRoot   string
	DevRoot   string
	FstabPath string

	// Runner は外部コマンド実行に使う
	Runner cli.Runner
	// Log はステップごとのログ出力に使う
	Log logrus.FieldLogger
}

// CheckAndSetDefaults は設定を検証し、未指定の項目にデフォルト値を設定する
func (o *Options) CheckAndSetDefaults() error {
	if o.VolumeID == "" {
		return ErrInvalidVolumeID
	}
	if o.MountPoint == "" {
		o.MountPoint = DefaultMountPoint
	}
	if o.Label == "" {
		o.Label = DefaultLabel
	}
	if o.FSType == "" {
		o.FSType = DefaultFSType
	}
	if o.FSType != "ext4" && o.FSType != "xfs" {
		return fmt.Errorf("サポートされていないファイルシステムです: %s (ext4 または xfs)", o.FSType)
	}
	if o.MountOptions == "" {
		o.MountOptions = DefaultMountOptions
	}
	if o.Mode == 0 {
		o.Mode = DefaultMode
	}
	if o.SysRoot == "" {
		o.SysRoot = DefaultSysRoot
	}
	if o.DevRoot == "" {
		o.DevRoot = DefaultDevRoot
	}
	if o.FstabPath == "" {
		o.FstabPath = DefaultFstabPath
	}
	if o.Runner == nil {
		o.Runner = cli.NewExecRunner()
	}
	if o.Log == nil {
		o.Log = logrus.WithField("component", "bootstrap")
	}
	return nil
}
