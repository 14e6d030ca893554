//go:build windows

package hook

import "golang.org/x/sys/windows"

// x/sys/windows 没有覆盖到的 Win32 入口统一用 lazy proc 绑定

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	user32   = windows.NewLazySystemDLL("user32.dll")
	psapi    = windows.NewLazySystemDLL("psapi.dll")

	procVirtualAlloc       = kernel32.NewProc("VirtualAlloc")
	procVirtualProtect     = kernel32.NewProc("VirtualProtect")
	procVirtualAllocEx     = kernel32.NewProc("VirtualAllocEx")
	procVirtualFreeEx      = kernel32.NewProc("VirtualFreeEx")
	procWriteProcessMemory = kernel32.NewProc("WriteProcessMemory")
	procCreateRemoteThread = kernel32.NewProc("CreateRemoteThread")
	procLoadLibraryA       = kernel32.NewProc("LoadLibraryA")
	procGetThreadTimes     = kernel32.NewProc("GetThreadTimes")
	procThread32First      = kernel32.NewProc("Thread32First")
	procThread32Next       = kernel32.NewProc("Thread32Next")
	procGetModuleHandleExA = kernel32.NewProc("GetModuleHandleExA")

	procEnumProcessModules   = psapi.NewProc("EnumProcessModules")
	procGetModuleBaseNameW   = psapi.NewProc("GetModuleBaseNameW")
	procGetModuleFileNameExW = psapi.NewProc("GetModuleFileNameExW")

	procEnumWindows              = user32.NewProc("EnumWindows")
	procEnumChildWindows         = user32.NewProc("EnumChildWindows")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
)

const (
	memCommit  = 0x1000
	memReserve = 0x2000
	memRelease = 0x8000
	memFree    = 0x10000

	pageExecuteReadWrite = 0x40

	th32csSnapThread = 0x00000004

	threadQueryInformation = 0x0040

	getModuleHandleExFlagFromAddress = 0x00000004
)

// threadEntry32 Toolhelp 线程快照条目
type threadEntry32 struct {
	Size           uint32
	Usage          uint32
	ThreadID       uint32
	OwnerProcessID uint32
	BasePri        int32
	DeltaPri       int32
	Flags          uint32
}
