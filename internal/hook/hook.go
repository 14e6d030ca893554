// Package hook 提供进程与模块挂钩工具
// 定位宿主进程、挂起创建、注入动态库、改写导出/导入表与代码字节，
// 使选定的引擎函数改道经过桥接层
//
// 所有查不到目标的操作返回零值而不是 panic，是否致命由调用方决定；
// 页保护的修改与恢复严格成对。PE/Win32 相关实现都锁在 windows 构建下，
// 其他平台一律拒绝初始化
package hook

import "errors"

var (
	ErrUnsupported    = errors.New("hook: not supported on this platform")
	ErrModuleNotFound = errors.New("hook: module not found")
	ErrExportNotFound = errors.New("hook: export not found")
	ErrImportNotFound = errors.New("hook: import not found")
	ErrAllocFailed    = errors.New("hook: executable allocation failed")
	ErrPatchFailed    = errors.New("hook: patch failed")
	ErrSpawnFailed    = errors.New("hook: process spawn failed")
	ErrInjectFailed   = errors.New("hook: dll injection failed")
)
