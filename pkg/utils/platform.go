//go:build !mobile

package utils

import "os"

// MobileEmulateEnv 设为 "1" 时桌面端按移动端显示（触屏提示文字）
const MobileEmulateEnv = "DINOFLAP_MOBILE_EMULATE"

// IsMobile 当前是否按移动端运行
func IsMobile() bool {
	return os.Getenv(MobileEmulateEnv) == "1"
}
