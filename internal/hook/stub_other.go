//go:build !windows

package hook

// 非 Windows 平台没有 EAT/IAT 的对等物，桥接层拒绝初始化
// 这里只保留签名，全部返回零值（空操作）

func AllocExecutable(size int, nearAddress uintptr) uintptr { return 0 }

func EmitJump(from, to uintptr) uintptr { return 0 }

func OverrideEAT(mod uintptr, exportName string, replacement uintptr, trampolineCursor *uintptr) uintptr {
	return 0
}

func OverrideIAT(mod uintptr, dllName, importName string, replacement uintptr) uintptr {
	return 0
}

func Hotpatch(target, replacement uintptr) uintptr { return 0 }

func EnumerateThreads(pid uint32, visitor func(tid uint32)) {}

func MainThreadID() uint32 { return 0 }

func IsInMainThread() bool { return false }
