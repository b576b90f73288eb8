package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"volboot/internal/cli"
)

// blkidNotFound はblkidが対象のメタデータを見つけられなかったときの終了コード
const blkidNotFound = 2

// mountableFilesystems はfstab経由でそのままマウントできるファイルシステム種別
var mountableFilesystems = map[string]bool{
	"ext2":  true,
	"ext3":  true,
	"ext4":  true,
	"xfs":   true,
	"btrfs": true,
}

// DetectFilesystem はデバイス上のファイルシステム種別を調べる
// メタデータがない場合は Unformatted と空文字を返す
func (b *Bootstrapper) DetectFilesystem(ctx context.Context, device Device) (FilesystemState, string, error) {
	out, err := b.opts.Runner.Run(ctx, "blkid", "-o", "value", "-s", "TYPE", device.Path)
	if err != nil {
		if cli.ExitCode(err) == blkidNotFound {
			return Unformatted, "", nil
		}
		return Unformatted, "", fmt.Errorf("%w: %s のファイルシステム判定に失敗: %v", ErrFormat, device.Path, err)
	}

	fsType := strings.TrimSpace(string(out))
	if fsType == "" {
		return Unformatted, "", nil
	}
	return Formatted, fsType, nil
}

// FormatIfNeeded はファイルシステムがない場合だけフォーマットする
// 既にメタデータがあるデバイスは絶対にフォーマットしない
// 戻り値はデバイス上のファイルシステム種別と、今回フォーマットしたかどうか
// 既存の種別が設定と異なる場合も既存の種別を返す
func (b *Bootstrapper) FormatIfNeeded(ctx context.Context, device Device) (string, bool, error) {
	log := b.opts.Log.WithFields(logrus.Fields{"step": StepFormat, "device": device.Path})

	state, fsType, err := b.DetectFilesystem(ctx, device)
	if err != nil {
		return "", false, err
	}
	if state == Formatted {
		if !mountableFilesystems[fsType] {
			return fsType, false, fmt.Errorf("%w: %s (TYPE=%s)", ErrUnsupportedFilesystem, device.Path, fsType)
		}
		if fsType != b.opts.FSType {
			log.Warnf("%s は %s でフォーマット済みです（指定は %s）。既存の %s でマウントします",
				device.Path, fsType, b.opts.FSType, fsType)
		} else {
			log.Infof("%s は既に %s でフォーマット済みのためスキップします", device.Path, fsType)
		}
		return fsType, false, nil
	}

	log.Infof("%s にファイルシステムがないため %s を作成します", device.Path, b.opts.FSType)
	name, args := b.mkfsCommand(device.Path)
	if _, err := b.opts.Runner.Run(ctx, name, args...); err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", ErrFormat, device.Path, err)
	}
	return b.opts.FSType, true, nil
}

// mkfsCommand はラベル付き・予約ブロックなしのmkfsコマンドを組み立てる
func (b *Bootstrapper) mkfsCommand(path string) (string, []string) {
	switch b.opts.FSType {
	case "xfs":
		// xfsには予約ブロックの概念がない
		return "mkfs.xfs", []string{"-L", b.opts.Label, path}
	default:
		return "mkfs." + b.opts.FSType, []string{"-L", b.opts.Label, "-m", "0", path}
	}
}

// ReadUUID はファイルシステムのUUIDを読み取る
func (b *Bootstrapper) ReadUUID(ctx context.Context, device Device) (string, error) {
	out, err := b.opts.Runner.Run(ctx, "blkid", "-o", "value", "-s", "UUID", device.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %s のUUID取得に失敗: %v", ErrMount, device.Path, err)
	}

	raw := strings.TrimSpace(string(out))
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s のUUIDが不正です (%q): %v", ErrMount, device.Path, raw, err)
	}
	return id.String(), nil
}
