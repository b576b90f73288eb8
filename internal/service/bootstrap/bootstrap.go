// Package bootstrap はインスタンス起動時にEBSデータボリュームを特定し、
// 必要な場合だけフォーマットして fstab 経由で永続的にマウントする。
//
// 処理は discover → format-if-needed → mount-if-needed の順に一度だけ実行され、
// どのステップの失敗もシーケンス全体を中断する。再試行は行わない。
// 同時実行は想定していない（デバイス名前空間とfstabはプロセス外で共有されるため）。
package bootstrap

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Bootstrapper はボリュームの特定・フォーマット・マウントを行う
type Bootstrapper struct {
	opts  Options
	table *MountTable
}

// New は設定を検証してBootstrapperを作成
func New(opts Options) (*Bootstrapper, error) {
	if err := opts.CheckAndSetDefaults(); err != nil {
		return nil, err
	}
	opts.Log = opts.Log.WithField("volume", opts.VolumeID)
	return &Bootstrapper{
		opts:  opts,
		table: NewMountTable(opts.FstabPath),
	}, nil
}

// Options は適用済みの設定を返す
func (b *Bootstrapper) Options() Options {
	return b.opts
}

// Run はブートシーケンス全体を実行する
// 初回起動でも2回目以降でも同じ結果（マウント済みのデータディレクトリ）になる
func (b *Bootstrapper) Run(ctx context.Context) (Result, error) {
	b.opts.Log.WithFields(logrus.Fields{
		"mountpoint": b.opts.MountPoint,
		"fstype":     b.opts.FSType,
	}).Info("データボリュームのブートシーケンスを開始します")

	device, err := b.Discover()
	if err != nil {
		return Result{}, err
	}
	result := Result{Device: device}

	fsType, formatted, err := b.FormatIfNeeded(ctx, device)
	if err != nil {
		return result, err
	}
	result.FSType = fsType
	result.Formatted = formatted

	id, added, err := b.MountIfNeeded(ctx, device, fsType)
	result.UUID = id
	result.EntryAdded = added
	if err != nil {
		return result, err
	}

	return result, nil
}

// Run はOptionsからBootstrapperを作成してブートシーケンスを実行する
func Run(ctx context.Context, opts Options) (Result, error) {
	b, err := New(opts)
	if err != nil {
		return Result{}, fmt.Errorf("ブートシーケンスの設定が不正です: %w", err)
	}
	return b.Run(ctx)
}
