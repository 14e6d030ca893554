//go:build !windows

package main

import (
	"fmt"
	"os"
)

// 注入库只对 Windows 宿主有意义；此处仅保证包在别的平台可构建

func main() {
	fmt.Fprintln(os.Stderr, "hook library: windows only (build with -buildmode=c-shared)")
	os.Exit(1)
}
