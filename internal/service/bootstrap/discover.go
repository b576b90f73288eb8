package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// controller はsysfs上のNVMeコントローラ
type controller struct {
	name  string
	index int
	dir   string
}

// listControllers は <SysRoot>/class/nvme 配下のコントローラをインデックス順に返す
func listControllers(sysRoot string) ([]controller, error) {
	dirs, err := filepath.Glob(filepath.Join(sysRoot, "class", "nvme", "nvme*"))
	if err != nil {
		return nil, fmt.Errorf("NVMeコントローラの列挙に失敗: %w", err)
	}

	var controllers []controller
	for _, dir := range dirs {
		name := filepath.Base(dir)
		index, err := strconv.Atoi(strings.TrimPrefix(name, "nvme"))
		if err != nil {
			// nvme-fabrics などコントローラ以外のエントリ
			continue
		}
		controllers = append(controllers, controller{name: name, index: index, dir: dir})
	}

	// nvme10 が nvme2 より前に来ないよう数値で並べる
	sort.Slice(controllers, func(i, j int) bool {
		return controllers[i].index < controllers[j].index
	})
	return controllers, nil
}

// Discover はボリュームIDに一致するシリアルを持つデバイスを探す
func (b *Bootstrapper) Discover() (Device, error) {
	key := SerialKey(b.opts.VolumeID)
	log := b.opts.Log.WithFields(logrus.Fields{"step": StepDiscover, "key": key})

	controllers, err := listControllers(b.opts.SysRoot)
	if err != nil {
		return Device{}, err
	}

	var found *Device
	for _, c := range controllers {
		data, err := os.ReadFile(filepath.Join(c.dir, "serial"))
		if err != nil {
			log.Warnf("%s のシリアルを読み取れません: %v", c.name, err)
			continue
		}
		serial := strings.TrimSpace(string(data))
		if !matchSerial(serial, key) {
			continue
		}
		if found != nil {
			// 外部のプロビジョニングが正しければ起こらない。先に見つかった方を使う
			log.Warnf("シリアル %s を報告するコントローラが複数あります: %s, %s（%s を使用）",
				serial, found.Controller, c.name, found.Controller)
			continue
		}

		device := b.deviceFor(c, serial)
		found = &device
	}

	if found == nil {
		return Device{}, fmt.Errorf("%w: シリアル %s を報告するNVMeコントローラがありません", ErrDeviceNotFound, key)
	}

	log.WithField("device", found.Path).Infof("ボリュームのデバイスを特定しました (%s)", found.Controller)
	return *found, nil
}

// deviceFor はコントローラのインデックスからデバイスパスを決める
// 第1パーティションが存在する場合はそちらを優先する
func (b *Bootstrapper) deviceFor(c controller, serial string) Device {
	disk := filepath.Join(b.opts.DevRoot, fmt.Sprintf("nvme%dn1", c.index))
	device := Device{
		Controller: c.name,
		Index:      c.index,
		Serial:     serial,
		DiskPath:   disk,
		Path:       disk,
	}

	partition := disk + "p1"
	if _, err := os.Stat(partition); err == nil {
		device.Path = partition
		device.Partitioned = true
	}
	return device
}
