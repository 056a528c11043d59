//go:build !mobile

// Package mobile 是 gomobile/ebitenmobile 的绑定入口
//
// 游戏初始化代码在 mobile.go 中，仅在 -tags mobile 时编译；
// 普通构建只编译本文件，保证 ./... 下的包都能通过构建。
package mobile

// Dummy 让非移动端构建也有一个可引用的导出符号
func Dummy() {}
