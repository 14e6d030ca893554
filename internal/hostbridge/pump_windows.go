//go:build windows

package hostbridge

import (
	"syscall"

	"github.com/PcloD/RemoteTalk/internal/hook"
	"github.com/PcloD/RemoteTalk/internal/logging"
)

// 消息泵：把 ProcessMessages 搭进宿主 GUI 线程
// 宿主的消息循环和空转都绕不开 PeekMessageW / GetMessageW / Sleep，
// 在主模块的导入表上把它们改道，途经时先清一轮队列再放行原函数
// 补丁进程级安装一次，之后不撤销

var (
	pumpBridge *Bridge

	origPeekMessageW uintptr
	origGetMessageW  uintptr
	origSleep        uintptr
)

func hookedPeekMessageW(msg, hwnd, filterMin, filterMax, removeMsg uintptr) uintptr {
	pumpTick()
	r, _, _ := syscall.SyscallN(origPeekMessageW, msg, hwnd, filterMin, filterMax, removeMsg)
	return r
}

func hookedGetMessageW(msg, hwnd, filterMin, filterMax uintptr) uintptr {
	pumpTick()
	r, _, _ := syscall.SyscallN(origGetMessageW, msg, hwnd, filterMin, filterMax)
	return r
}

func hookedSleep(ms uintptr) uintptr {
	pumpTick()
	syscall.SyscallN(origSleep, ms)
	return 0
}

func pumpTick() {
	if pumpBridge != nil && hook.IsInMainThread() {
		pumpBridge.ProcessMessages()
	}
}

// InstallPump 在宿主主模块导入表上安装消息泵钩子
// 一个都挂不上时报错，调用方据此让桥退化为空操作
func (b *Bridge) InstallPump() error {
	mainModule := hook.MainModule()
	if !hook.IsValidModule(mainModule) {
		return hook.ErrModuleNotFound
	}

	// 主线程 ID 先行缓存：之后每次途经只是一次比较
	if hook.MainThreadID() == 0 {
		return hook.ErrUnsupported
	}

	pumpBridge = b
	installed := 0
	if prev := hook.OverrideIAT(mainModule, "user32.dll", "PeekMessageW",
		syscall.NewCallback(hookedPeekMessageW)); prev != 0 {
		origPeekMessageW = prev
		installed++
	}
	if prev := hook.OverrideIAT(mainModule, "user32.dll", "GetMessageW",
		syscall.NewCallback(hookedGetMessageW)); prev != 0 {
		origGetMessageW = prev
		installed++
	}
	if prev := hook.OverrideIAT(mainModule, "kernel32.dll", "Sleep",
		syscall.NewCallback(hookedSleep)); prev != 0 {
		origSleep = prev
		installed++
	}
	if installed == 0 {
		pumpBridge = nil
		return hook.ErrImportNotFound
	}
	logging.Infof("message pump installed on thread %d (%d import hooks)",
		hook.MainThreadID(), installed)
	return nil
}
