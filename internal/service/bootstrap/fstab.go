package bootstrap

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MountTable は永続的なマウントテーブル (/etc/fstab)
type MountTable struct {
	Path string
}

// NewMountTable は指定パスのマウントテーブルを返す
func NewMountTable(path string) *MountTable {
	return &MountTable{Path: path}
}

// read はファイル内容を読み込む。存在しない場合は空として扱う
func (t *MountTable) read() ([]byte, os.FileMode, error) {
	data, err := os.ReadFile(t.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0o644, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%s の読み込みに失敗: %w", t.Path, err)
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return nil, 0, fmt.Errorf("%s の情報取得に失敗: %w", t.Path, err)
	}
	return data, info.Mode().Perm(), nil
}

// HasUUID はUUIDをキーとするエントリが既にあるか確認する
func (t *MountTable) HasUUID(id string) (bool, error) {
	data, _, err := t.read()
	if err != nil {
		return false, err
	}
	found, err := containsUUID(data, id)
	if err != nil {
		return false, fmt.Errorf("%s の解析に失敗: %w", t.Path, err)
	}
	return found, nil
}

// Ensure はエントリがなければ追記する。追記したかどうかを返す
func (t *MountTable) Ensure(entry MountEntry) (bool, error) {
	data, perm, err := t.read()
	if err != nil {
		return false, err
	}
	found, err := containsUUID(data, entry.UUID)
	if err != nil {
		return false, fmt.Errorf("%s の解析に失敗: %w", t.Path, err)
	}
	if found {
		return false, nil
	}

	var buf bytes.Buffer
	buf.Write(data)
	if len(data) > 0 && !bytes.HasSuffix(data, []byte("\n")) {
		buf.WriteByte('\n')
	}
	buf.WriteString(entry.String())
	buf.WriteByte('\n')

	target, err := t.resolve()
	if err != nil {
		return false, err
	}
	if err := writeFileAtomic(target, buf.Bytes(), perm); err != nil {
		return false, fmt.Errorf("%s の書き込みに失敗: %w", target, err)
	}
	return true, nil
}

// resolve はシンボリックリンクを辿った実体のパスを返す
// リネームでリンク自体を置き換えないよう、書き込みは実体に対して行う
// ファイルがまだ存在しない場合は Path をそのまま返す
func (t *MountTable) resolve() (string, error) {
	target, err := filepath.EvalSymlinks(t.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return t.Path, nil
	}
	if err != nil {
		return "", fmt.Errorf("%s のリンク解決に失敗: %w", t.Path, err)
	}
	return target, nil
}

// containsUUID はfstabの内容にUUID=<id>の行があるか走査する
// 解析できない行は無視するが、読み切れなかった場合はエラーを返す
func containsUUID(data []byte, id string) (bool, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		spec, ok := strings.CutPrefix(fields[0], "UUID=")
		if !ok {
			continue
		}
		spec = strings.Trim(spec, `"'`)
		if strings.EqualFold(spec, id) {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, err
	}
	return false, nil
}

// writeFileAtomic はリネームで原子的にファイルを書き換える
// 原子性が保証されるのは同一ファイルシステム内のみ
func writeFileAtomic(filePath string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filePath)
	tmp, err := os.CreateTemp(dir, ".fstab-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filePath); err != nil {
		return err
	}

	// 電源断でもリネームが残るようディレクトリもfsyncする
	dfd, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer dfd.Close()
	return dfd.Sync()
}
