package bootstrap

import "strings"

// SerialKey はボリュームIDからNVMeシリアル照合用のキーを作る
// EBSのNVMeシリアルはボリュームIDから区切り文字(-)を除いた形で公開される
func SerialKey(volumeID string) string {
	return strings.ReplaceAll(strings.TrimSpace(volumeID), "-", "")
}

// matchSerial はコントローラのシリアルがキーと一致するか判定する
// "vol" 接頭辞なしでシリアルを報告する環境もあるため両方を受け付ける
func matchSerial(serial, key string) bool {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return false
	}
	if serial == key {
		return true
	}
	return "vol"+serial == key
}
