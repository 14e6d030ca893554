//go:build windows

package hook

import (
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

// 直接在已加载镜像上遍历 PE 结构
// 所有 RVA 以模块基址换算；非法模块（缺 MZ 标记）一律拒绝

const (
	imageDirectoryEntryExport = 0
	imageDirectoryEntryImport = 1

	peMagic32     = 0x10b
	peMagic64     = 0x20b
	dirOffsetPE32 = 96
	dirOffsetPE64 = 112
)

type imageExportDirectory struct {
	Characteristics       uint32
	TimeDateStamp         uint32
	MajorVersion          uint16
	MinorVersion          uint16
	Name                  uint32
	Base                  uint32
	NumberOfFunctions     uint32
	NumberOfNames         uint32
	AddressOfFunctions    uint32
	AddressOfNames        uint32
	AddressOfNameOrdinals uint32
}

type imageImportDescriptor struct {
	OriginalFirstThunk uint32
	TimeDateStamp      uint32
	ForwarderChain     uint32
	Name               uint32
	FirstThunk         uint32
}

func u16at(addr uintptr) uint16  { return *(*uint16)(unsafe.Pointer(addr)) }
func u32at(addr uintptr) uint32  { return *(*uint32)(unsafe.Pointer(addr)) }
func ptrAt(addr uintptr) uintptr { return *(*uintptr)(unsafe.Pointer(addr)) }

func cstringAt(addr uintptr) string {
	var out []byte
	for i := uintptr(0); ; i++ {
		b := *(*byte)(unsafe.Pointer(addr + i))
		if b == 0 {
			break
		}
		out = append(out, b)
	}
	return string(out)
}

// IsValidModule 基址处有 MZ 标记才算已加载模块
func IsValidModule(mod windows.Handle) bool {
	if mod == 0 {
		return false
	}
	base := uintptr(mod)
	return *(*byte)(unsafe.Pointer(base)) == 'M' && *(*byte)(unsafe.Pointer(base + 1)) == 'Z'
}

// peDirectory 取数据目录第 index 项的 RVA
func peDirectory(base uintptr, index int) uint32 {
	lfanew := u32at(base + 0x3C)
	opt := base + uintptr(lfanew) + 24
	var dirOffset uintptr
	switch u16at(opt) {
	case peMagic64:
		dirOffset = dirOffsetPE64
	case peMagic32:
		dirOffset = dirOffsetPE32
	default:
		return 0
	}
	return u32at(opt + dirOffset + uintptr(index)*8)
}

// forceWrite32 越过页保护写入 4 字节并恢复原保护
func forceWrite32(addr uintptr, v uint32) bool {
	var old uint32
	if r, _, _ := procVirtualProtect.Call(addr, 4, pageExecuteReadWrite, uintptr(unsafe.Pointer(&old))); r == 0 {
		return false
	}
	*(*uint32)(unsafe.Pointer(addr)) = v
	procVirtualProtect.Call(addr, 4, uintptr(old), uintptr(unsafe.Pointer(&old)))
	return true
}

func forceWritePtr(addr uintptr, v uintptr) bool {
	var old uint32
	size := unsafe.Sizeof(v)
	if r, _, _ := procVirtualProtect.Call(addr, size, pageExecuteReadWrite, uintptr(unsafe.Pointer(&old))); r == 0 {
		return false
	}
	*(*uintptr)(unsafe.Pointer(addr)) = v
	procVirtualProtect.Call(addr, size, uintptr(old), uintptr(unsafe.Pointer(&old)))
	return true
}

// AllocExecutable 在 nearAddress 附近保留一块可写可执行内存
// 以 64KiB 步长向高地址探测直到系统接受，保证蹦床与被补丁位置
// 的距离落在近跳可达范围内
func AllocExecutable(size int, nearAddress uintptr) uintptr {
	const step = 0x10000
	for i := uintptr(0); i < 0x8000; i++ {
		addr, _, _ := procVirtualAlloc.Call(nearAddress+step*i, uintptr(size),
			memCommit|memReserve, pageExecuteReadWrite)
		if addr != 0 {
			return addr
		}
	}
	return 0
}

// EmitJump 在 from 处写入跳往 to 的机器码，返回写游标（紧跟指令之后）
// 目标区域必须已可写（蹦床池由 AllocExecutable 保证）
func EmitJump(from, to uintptr) uintptr {
	code := JumpCode(from, to)
	for i, b := range code {
		*(*byte)(unsafe.Pointer(from + uintptr(i))) = b
	}
	return from + uintptr(len(code))
}

// OverrideEAT 把模块导出表中 exportName 的 RVA 改指向蹦床里新生成的
// 跳转，蹦床游标前移；返回原函数地址，找不到返回 0
func OverrideEAT(mod windows.Handle, exportName string, replacement uintptr, trampolineCursor *uintptr) uintptr {
	if !IsValidModule(mod) {
		return 0
	}
	base := uintptr(mod)
	rvaExports := peDirectory(base, imageDirectoryEntryExport)
	if rvaExports == 0 {
		return 0
	}
	dir := (*imageExportDirectory)(unsafe.Pointer(base + uintptr(rvaExports)))
	names := base + uintptr(dir.AddressOfNames)
	ordinals := base + uintptr(dir.AddressOfNameOrdinals)
	functions := base + uintptr(dir.AddressOfFunctions)

	for i := uint32(0); i < dir.NumberOfNames; i++ {
		name := cstringAt(base + uintptr(u32at(names+uintptr(i)*4)))
		if name != exportName {
			continue
		}
		ord := u16at(ordinals + uintptr(i)*2)
		slot := functions + uintptr(ord)*4
		before := base + uintptr(u32at(slot))
		if !forceWrite32(slot, uint32(*trampolineCursor-base)) {
			return 0
		}
		*trampolineCursor = EmitJump(*trampolineCursor, replacement)
		return before
	}
	return 0
}

// OverrideIAT 覆写模块导入表中 dllName!importName 的槽位
// dllName 比较不区分大小写；返回原指针，找不到返回 0
func OverrideIAT(mod windows.Handle, dllName, importName string, replacement uintptr) uintptr {
	var before uintptr
	EnumerateDLLImports(mod, dllName, func(name string, slot *uintptr) {
		if before == 0 && name == importName {
			before = *slot
			if !forceWritePtr(uintptr(unsafe.Pointer(slot)), replacement) {
				before = 0
			}
		}
	})
	return before
}

// Hotpatch 利用“热补丁填充”约定：函数体前 7 字节
// （5 字节 padding + 2 字节 mov edi,edi）改写为跳板
// 返回 target+2，调用方经它调用原函数
func Hotpatch(target, replacement uintptr) uintptr {
	var old uint32
	start := target - 5
	if r, _, _ := procVirtualProtect.Call(start, 7, pageExecuteReadWrite, uintptr(unsafe.Pointer(&old))); r == 0 {
		return 0
	}
	*(*byte)(unsafe.Pointer(start)) = 0xE9
	*(*uint32)(unsafe.Pointer(start + 1)) = uint32(replacement - target)
	*(*byte)(unsafe.Pointer(target)) = 0xEB     // jmp short
	*(*byte)(unsafe.Pointer(target + 1)) = 0xF9 // -7
	procVirtualProtect.Call(start, 7, uintptr(old), uintptr(unsafe.Pointer(&old)))
	return target + 2
}

// EnumerateDLLImports 遍历导入表，dllName 为空串时不过滤
// visitor 通过 slot 指针可直接改写条目
func EnumerateDLLImports(mod windows.Handle, dllName string, visitor func(name string, slot *uintptr)) {
	if !IsValidModule(mod) {
		return
	}
	base := uintptr(mod)
	rvaImports := peDirectory(base, imageDirectoryEntryImport)
	if rvaImports == 0 {
		return
	}
	desc := (*imageImportDescriptor)(unsafe.Pointer(base + uintptr(rvaImports)))
	for desc.Name != 0 {
		name := cstringAt(base + uintptr(desc.Name))
		if dllName == "" || strings.EqualFold(name, dllName) {
			orig := base + uintptr(desc.OriginalFirstThunk)
			thunk := base + uintptr(desc.FirstThunk)
			for {
				data := ptrAt(orig)
				if data == 0 {
					break
				}
				// 最高位置起表示按序号导入，无名字可比
				if data&(1<<(unsafe.Sizeof(data)*8-1)) == 0 {
					importName := cstringAt(base + data + 2)
					visitor(importName, (*uintptr)(unsafe.Pointer(thunk)))
				}
				orig += unsafe.Sizeof(uintptr(0))
				thunk += unsafe.Sizeof(uintptr(0))
			}
		}
		desc = (*imageImportDescriptor)(unsafe.Pointer(uintptr(unsafe.Pointer(desc)) + unsafe.Sizeof(*desc)))
	}
}

// EnumerateDLLExports 遍历导出表
func EnumerateDLLExports(mod windows.Handle, visitor func(name string, fn uintptr)) {
	if !IsValidModule(mod) {
		return
	}
	base := uintptr(mod)
	rvaExports := peDirectory(base, imageDirectoryEntryExport)
	if rvaExports == 0 {
		return
	}
	dir := (*imageExportDirectory)(unsafe.Pointer(base + uintptr(rvaExports)))
	names := base + uintptr(dir.AddressOfNames)
	ordinals := base + uintptr(dir.AddressOfNameOrdinals)
	functions := base + uintptr(dir.AddressOfFunctions)
	for i := uint32(0); i < dir.NumberOfNames; i++ {
		name := cstringAt(base + uintptr(u32at(names+uintptr(i)*4)))
		ord := u16at(ordinals + uintptr(i)*2)
		fn := base + uintptr(u32at(functions+uintptr(ord)*4))
		visitor(name, fn)
	}
}
