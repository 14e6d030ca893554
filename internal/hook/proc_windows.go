//go:build windows

package hook

import (
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// EnumerateModules 遍历进程已加载的模块
func EnumerateModules(process windows.Handle, visitor func(mod windows.Handle)) {
	var needed uint32
	procEnumProcessModules.Call(uintptr(process), 0, 0, uintptr(unsafe.Pointer(&needed)))
	if needed == 0 {
		return
	}
	count := needed / uint32(unsafe.Sizeof(windows.Handle(0)))
	mods := make([]windows.Handle, count)
	r, _, _ := procEnumProcessModules.Call(uintptr(process),
		uintptr(unsafe.Pointer(&mods[0])), uintptr(needed), uintptr(unsafe.Pointer(&needed)))
	if r == 0 {
		return
	}
	for _, m := range mods {
		visitor(m)
	}
}

// EnumerateCurrentModules 当前进程版本
func EnumerateCurrentModules(visitor func(mod windows.Handle)) {
	EnumerateModules(windows.CurrentProcess(), visitor)
}

// MainModule 进程主模块（可执行文件本体）
func MainModule() windows.Handle {
	mod, _ := windows.GetModuleHandle(nil)
	return mod
}

// ModuleByAddr 包含给定地址的模块
func ModuleByAddr(addr uintptr) windows.Handle {
	var mod windows.Handle
	procGetModuleHandleExA.Call(getModuleHandleExFlagFromAddress, addr,
		uintptr(unsafe.Pointer(&mod)))
	return mod
}

// ModuleDirectory 模块文件所在目录
func ModuleDirectory(mod windows.Handle) string {
	buf := make([]uint16, windows.MAX_PATH+1)
	n, err := windows.GetModuleFileName(mod, &buf[0], uint32(len(buf)))
	if err != nil || n == 0 {
		return ""
	}
	return filepath.Dir(windows.UTF16ToString(buf[:n]))
}

// MainModulePath 进程可执行文件完整路径
func MainModulePath() string {
	buf := make([]uint16, windows.MAX_PATH+1)
	n, err := windows.GetModuleFileName(0, &buf[0], uint32(len(buf)))
	if err != nil || n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

// EnumerateThreads 通过系统快照遍历 pid 的所有线程
func EnumerateThreads(pid uint32, visitor func(tid uint32)) {
	snap, err := windows.CreateToolhelp32Snapshot(th32csSnapThread, 0)
	if err != nil {
		return
	}
	defer windows.CloseHandle(snap)

	var entry threadEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	r, _, _ := procThread32First.Call(uintptr(snap), uintptr(unsafe.Pointer(&entry)))
	for r != 0 {
		if entry.OwnerProcessID == pid {
			visitor(entry.ThreadID)
		}
		entry.Size = uint32(unsafe.Sizeof(entry))
		r, _, _ = procThread32Next.Call(uintptr(snap), uintptr(unsafe.Pointer(&entry)))
	}
}

var (
	mainThreadOnce sync.Once
	mainThreadID   uint32
)

// MainThreadID 当前进程创建时间最早的线程即主（GUI）线程
// 首次成功判定后终生缓存
func MainThreadID() uint32 {
	mainThreadOnce.Do(func() {
		oldest := ^uint64(0)
		EnumerateThreads(windows.GetCurrentProcessId(), func(tid uint32) {
			h, err := windows.OpenThread(threadQueryInformation, true, tid)
			if err != nil {
				return
			}
			defer windows.CloseHandle(h)
			var ctime, etime, ktime, utime windows.Filetime
			r, _, _ := procGetThreadTimes.Call(uintptr(h),
				uintptr(unsafe.Pointer(&ctime)), uintptr(unsafe.Pointer(&etime)),
				uintptr(unsafe.Pointer(&ktime)), uintptr(unsafe.Pointer(&utime)))
			if r == 0 {
				return
			}
			created := uint64(ctime.HighDateTime)<<32 | uint64(ctime.LowDateTime)
			if created < oldest {
				oldest = created
				mainThreadID = tid
			}
		})
	})
	return mainThreadID
}

// IsInMainThread 当前线程是否主线程
func IsInMainThread() bool {
	return MainThreadID() == windows.GetCurrentThreadId()
}

// FindProcess 按可执行文件名找进程，返回打开的句柄与 pid
func FindProcess(exeName string) (windows.Handle, uint32) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return 0, 0
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Process32First(snap, &entry); err != nil {
		return 0, 0
	}
	for {
		name := windows.UTF16ToString(entry.ExeFile[:])
		if strings.EqualFold(name, exeName) {
			h, err := windows.OpenProcess(windows.PROCESS_ALL_ACCESS, false, entry.ProcessID)
			if err == nil {
				return h, entry.ProcessID
			}
		}
		if err := windows.Process32Next(snap, &entry); err != nil {
			return 0, 0
		}
	}
}

// InjectDLL 经典注入：远程分配 → 写入路径 → 以 LoadLibraryA 起远程线程
// 等目标 DllMain 返回后释放远程缓冲
func InjectDLL(process windows.Handle, dllPath string) error {
	pathBytes := append([]byte(dllPath), 0)

	remote, _, _ := procVirtualAllocEx.Call(uintptr(process), 0, 1024,
		memCommit|memReserve, pageExecuteReadWrite)
	if remote == 0 {
		return ErrInjectFailed
	}
	defer procVirtualFreeEx.Call(uintptr(process), remote, 0, memRelease)

	var written uintptr
	r, _, _ := procWriteProcessMemory.Call(uintptr(process), remote,
		uintptr(unsafe.Pointer(&pathBytes[0])), uintptr(len(pathBytes)),
		uintptr(unsafe.Pointer(&written)))
	if r == 0 || written != uintptr(len(pathBytes)) {
		return ErrInjectFailed
	}

	thread, _, _ := procCreateRemoteThread.Call(uintptr(process), 0, 0,
		procLoadLibraryA.Addr(), remote, 0, 0)
	if thread == 0 {
		return ErrInjectFailed
	}
	defer windows.CloseHandle(windows.Handle(thread))

	if _, err := windows.WaitForSingleObject(windows.Handle(thread), windows.INFINITE); err != nil {
		return ErrInjectFailed
	}
	return nil
}

// 窗口枚举限定在当前进程

func currentPID() uint32 { return windows.GetCurrentProcessId() }

func windowBelongsHere(hwnd uintptr) bool {
	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	return pid == currentPID()
}

// EnumerateTopWindows 当前进程的顶层窗口
func EnumerateTopWindows(visitor func(hwnd uintptr)) {
	cb := syscall.NewCallback(func(hwnd, _ uintptr) uintptr {
		if windowBelongsHere(hwnd) {
			visitor(hwnd)
		}
		return 1
	})
	procEnumWindows.Call(cb, 0)
}

// EnumerateChildWindows parent 的直接与间接子窗口
func EnumerateChildWindows(parent uintptr, visitor func(hwnd uintptr)) {
	cb := syscall.NewCallback(func(hwnd, _ uintptr) uintptr {
		if windowBelongsHere(hwnd) {
			visitor(hwnd)
		}
		return 1
	})
	procEnumChildWindows.Call(parent, cb, 0)
}

// EnumerateAllWindows 顶层窗口及其全部子窗口
func EnumerateAllWindows(visitor func(hwnd uintptr)) {
	EnumerateTopWindows(func(hwnd uintptr) {
		visitor(hwnd)
		EnumerateChildWindows(hwnd, visitor)
	})
}
