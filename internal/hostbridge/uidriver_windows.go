//go:build windows

package hostbridge

import (
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/PcloD/RemoteTalk/internal/hook"
)

// 宿主 UI 驱动：文本进第一个 Edit 系控件，播放/停止走 Button 点击
// 控件定位全部限定在宿主自己的窗口里

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSendMessageW    = user32.NewProc("SendMessageW")
	procGetClassNameW   = user32.NewProc("GetClassNameW")
	procGetWindowTextW  = user32.NewProc("GetWindowTextW")
	procIsWindowVisible = user32.NewProc("IsWindowVisible")
)

const (
	wmSetText = 0x000C
	bmClick   = 0x00F5
)

func windowClass(hwnd uintptr) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetClassNameW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:n])
}

func windowText(hwnd uintptr) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:n])
}

func windowVisible(hwnd uintptr) bool {
	r, _, _ := procIsWindowVisible.Call(hwnd)
	return r != 0
}

// setHostEditText 找到第一个可见的 Edit 系控件并设置文本
func setHostEditText(text string) bool {
	utf16Text, err := windows.UTF16PtrFromString(text)
	if err != nil {
		return false
	}
	done := false
	hook.EnumerateAllWindows(func(hwnd uintptr) {
		if done || !windowVisible(hwnd) {
			return
		}
		cls := windowClass(hwnd)
		if strings.Contains(cls, "Edit") || strings.Contains(cls, "EDIT") ||
			strings.Contains(cls, "RichEdit") {
			procSendMessageW.Call(hwnd, wmSetText, 0, uintptr(unsafe.Pointer(utf16Text)))
			done = true
		}
	})
	return done
}

// clickButtonByText 点第一个标题匹配的按钮；labels 为空时点第一个按钮
func clickButtonByText(labels ...string) bool {
	done := false
	hook.EnumerateAllWindows(func(hwnd uintptr) {
		if done || !windowVisible(hwnd) {
			return
		}
		if !strings.Contains(windowClass(hwnd), "Button") {
			return
		}
		if len(labels) > 0 {
			text := windowText(hwnd)
			matched := false
			for _, l := range labels {
				if strings.Contains(text, l) {
					matched = true
					break
				}
			}
			if !matched {
				return
			}
		}
		procSendMessageW.Call(hwnd, bmClick, 0, 0)
		done = true
	})
	return done
}

func clickHostPlayButton() bool {
	// 常见宿主的播放钮标题；全都找不到再退回第一个按钮
	if clickButtonByText("再生", "Play", "播放") {
		return true
	}
	return clickButtonByText()
}

func clickHostStopButton() bool {
	return clickButtonByText("停止", "Stop")
}
