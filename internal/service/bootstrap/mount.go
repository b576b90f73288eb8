package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// MountIfNeeded はfstabにUUIDでエントリを登録し、mount -a でマウントする
// fsType はデバイス上の実際の種別 (FormatIfNeeded の戻り値)
// 戻り値はUUIDと、今回fstabへ追記したかどうか
func (b *Bootstrapper) MountIfNeeded(ctx context.Context, device Device, fsType string) (string, bool, error) {
	log := b.opts.Log.WithFields(logrus.Fields{"step": StepMount, "device": device.Path})

	// デバイスパスは再起動で変わり得るためUUIDをキーにする
	id, err := b.ReadUUID(ctx, device)
	if err != nil {
		return "", false, err
	}
	log = log.WithField("uuid", id)

	if err := os.MkdirAll(b.opts.MountPoint, b.opts.Mode); err != nil {
		return id, false, fmt.Errorf("%w: マウントポイント %s の作成に失敗: %v", ErrMount, b.opts.MountPoint, err)
	}

	entry := MountEntry{
		UUID:       id,
		MountPoint: b.opts.MountPoint,
		FSType:     fsType,
		Options:    b.opts.MountOptions,
		Dump:       0,
		Pass:       2,
	}
	added, err := b.table.Ensure(entry)
	if err != nil {
		return id, false, fmt.Errorf("%w: %v", ErrMount, err)
	}
	if added {
		log.Infof("%s に追記しました: %s", b.table.Path, entry)
	} else {
		log.Infof("%s には既にUUID=%s のエントリがあるためスキップします", b.table.Path, id)
	}

	// 個別にマウントせず、fstabを唯一の設定として毎回検証する
	if _, err := b.opts.Runner.Run(ctx, "mount", "-a"); err != nil {
		return id, added, fmt.Errorf("%w: mount -a: %v", ErrMount, err)
	}

	if err := os.Chown(b.opts.MountPoint, b.opts.UID, b.opts.GID); err != nil {
		return id, added, fmt.Errorf("%w: %s の所有者設定に失敗: %v", ErrMount, b.opts.MountPoint, err)
	}
	if err := os.Chmod(b.opts.MountPoint, b.opts.Mode); err != nil {
		return id, added, fmt.Errorf("%w: %s のパーミッション設定に失敗: %v", ErrMount, b.opts.MountPoint, err)
	}

	log.Infof("%s をマウントしました (owner=%d:%d mode=%#o)", b.opts.MountPoint, b.opts.UID, b.opts.GID, b.opts.Mode)
	return id, added, nil
}
