//go:build windows

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/PcloD/RemoteTalk/internal/config"
	"github.com/PcloD/RemoteTalk/internal/hook"
	"github.com/PcloD/RemoteTalk/internal/logging"
)

const (
	hookDLLName    = "RemoteTalkHook.dll"
	defaultHostExe = "host.exe"
	defaultPort    = 8081
	readyTimeout   = 5 * time.Second
)

func run() int {
	_ = logging.InitFromEnv()
	defer logging.Sync()

	self, err := os.Executable()
	if err != nil {
		logging.Errorf("resolve launcher path: %v", err)
		return -1
	}
	baseDir := filepath.Dir(self)

	// 参数优先，否则找启动器旁边的宿主
	hostExe := filepath.Join(baseDir, defaultHostExe)
	if len(os.Args) > 1 {
		hostExe = os.Args[1]
	}

	configPath := filepath.Join(baseDir, config.DefaultFileName)
	settings, err := config.GetOrAddServerSettings(configPath, hostExe, defaultPort)
	if err != nil {
		logging.Errorf("config: %v", err)
		return -1
	}

	exePtr, err := windows.UTF16PtrFromString(hostExe)
	if err != nil {
		return -1
	}
	var si windows.StartupInfo
	si.Cb = uint32(unsafe.Sizeof(si))
	var pi windows.ProcessInformation
	err = windows.CreateProcess(exePtr, nil, nil, nil, false,
		windows.NORMAL_PRIORITY_CLASS|windows.CREATE_SUSPENDED, nil, nil, &si, &pi)
	if err != nil {
		logging.Errorf("spawn %s: %v", hostExe, err)
		return -1
	}
	defer windows.CloseHandle(pi.Process)
	defer windows.CloseHandle(pi.Thread)

	hookPath := filepath.Join(baseDir, hookDLLName)
	if err := hook.InjectDLL(pi.Process, hookPath); err != nil {
		// 注入失败时宿主照常跑，只是没有桥
		logging.Warnf("inject %s: %v", hookPath, err)
	}
	if _, err := windows.ResumeThread(pi.Thread); err != nil {
		logging.Errorf("resume host: %v", err)
		return -1
	}

	if !waitUntilServerRespond(settings.Port, readyTimeout) {
		logging.Errorf("bridge did not answer /ready within %v", readyTimeout)
		return -1
	}
	fmt.Println(settings.Port)
	return int(settings.Port)
}
