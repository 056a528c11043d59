//go:build !android

package utils

// PrepareStorage 在 gdata.Open 之前调用；非 Android 平台由 gdata 自行创建目录
func PrepareStorage() error {
	return nil
}
