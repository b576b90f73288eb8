package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// exitError は終了コード付きのコマンド失敗
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e exitError) ExitCode() int { return e.code }

type fakeDisk struct {
	fsType string
	uuid   string
}

// fakeRunner はblkid/mkfs/mountの振る舞いを模倣する
type fakeRunner struct {
	disks     map[string]*fakeDisk
	nextUUID  string
	failMkfs  bool
	failMount bool
	badUUID   bool
	calls     [][]string
}

func newFakeRunner(nextUUID string) *fakeRunner {
	return &fakeRunner{disks: map[string]*fakeDisk{}, nextUUID: nextUUID}
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	path := ""
	if len(args) > 0 {
		path = args[len(args)-1]
	}

	switch name {
	case "blkid":
		d := r.disks[path]
		if d == nil || d.fsType == "" {
			return nil, exitError{code: 2}
		}
		if args[3] == "TYPE" {
			return []byte(d.fsType + "\n"), nil
		}
		if r.badUUID {
			return []byte("not-a-uuid\n"), nil
		}
		return []byte(d.uuid + "\n"), nil
	case "mkfs.ext4", "mkfs.xfs":
		if r.failMkfs {
			return nil, exitError{code: 1}
		}
		d := r.disks[path]
		if d == nil {
			d = &fakeDisk{}
			r.disks[path] = d
		}
		d.fsType = strings.TrimPrefix(name, "mkfs.")
		d.uuid = r.nextUUID
	case "mount":
		if r.failMount {
			return nil, exitError{code: 32}
		}
	}
	return nil, nil
}

// count は指定コマンドの呼び出し回数を返す
func (r *fakeRunner) count(name string) int {
	n := 0
	for _, call := range r.calls {
		if call[0] == name {
			n++
		}
	}
	return n
}

// testEnv はsysfs・/dev・fstab・マウント先を一時ディレクトリに用意する
type testEnv struct {
	sys   string
	dev   string
	fstab string
	mnt   string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	root := t.TempDir()
	env := testEnv{
		sys:   filepath.Join(root, "sys"),
		dev:   filepath.Join(root, "dev"),
		fstab: filepath.Join(root, "etc", "fstab"),
		mnt:   filepath.Join(root, "data"),
	}
	for _, dir := range []string{
		filepath.Join(env.sys, "class", "nvme"),
		env.dev,
		filepath.Dir(env.fstab),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return env
}

// addController は実機と同様に末尾を空白で埋めたシリアルを書き込む
func (e testEnv) addController(t *testing.T, index int, serial string) string {
	t.Helper()
	dir := filepath.Join(e.sys, "class", "nvme", fmt.Sprintf("nvme%d", index))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	padded := fmt.Sprintf("%-20s\n", serial)
	if err := os.WriteFile(filepath.Join(dir, "serial"), []byte(padded), 0o444); err != nil {
		t.Fatal(err)
	}
	disk := filepath.Join(e.dev, fmt.Sprintf("nvme%dn1", index))
	if err := os.WriteFile(disk, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	return disk
}

func (e testEnv) addPartition(t *testing.T, index int) string {
	t.Helper()
	part := filepath.Join(e.dev, fmt.Sprintf("nvme%dn1p1", index))
	if err := os.WriteFile(part, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	return part
}

func (e testEnv) options(runner *fakeRunner, volumeID string) Options {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return Options{
		VolumeID:   volumeID,
		MountPoint: e.mnt,
		UID:        os.Getuid(),
		GID:        os.Getgid(),
		SysRoot:    e.sys,
		DevRoot:    e.dev,
		FstabPath:  e.fstab,
		Runner:     runner,
		Log:        logger,
	}
}

func newBootstrapper(t *testing.T, opts Options) *Bootstrapper {
	t.Helper()
	b, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}
