//go:build !windows

package main

import (
	"fmt"
	"os"
)

// 挂钩依赖 PE 结构，非 Windows 平台没有对等物，直接拒绝

func run() int {
	fmt.Fprintln(os.Stderr, "launcher: process hooking requires windows")
	return -1
}
