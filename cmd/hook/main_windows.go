//go:build windows

package main

/*
#include <stdlib.h>
#include <string.h>

// 注入库的 C 侧句柄：宿主内的其他组件经它确认桥已就位，
// 实际控制面走桥的 HTTP 接口
typedef struct rtTalkInterfaceHandle {
	int            plugin_version;
	int            protocol_version;
	unsigned short port;
	const char    *client_name;
} rtTalkInterfaceHandle;
*/
import "C"

import (
	"path/filepath"
	"unsafe"

	"github.com/PcloD/RemoteTalk/internal/config"
	"github.com/PcloD/RemoteTalk/internal/hook"
	"github.com/PcloD/RemoteTalk/internal/hostbridge"
	"github.com/PcloD/RemoteTalk/internal/logging"
	"github.com/PcloD/RemoteTalk/internal/server"
)

var (
	bridge *hostbridge.Bridge
	engine *hostbridge.WaveOutEngine
	handle *C.rtTalkInterfaceHandle
)

//export rtGetTalkInterface
func rtGetTalkInterface() unsafe.Pointer {
	return unsafe.Pointer(handle)
}

// DLL 加载即初始化；启动期的挂钩失败对桥是致命的，
// 但绝不能拖垮宿主——失败就退化为空操作，宿主照常运行
func init() {
	go setup()
}

func setup() {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("bridge setup panicked, running as no-op: %v", r)
		}
	}()
	_ = logging.InitFromEnv()

	exePath := hook.MainModulePath()
	if exePath == "" {
		logging.Warnf("cannot resolve host path, bridge disabled")
		return
	}
	settingsFile := filepath.Join(filepath.Dir(exePath), config.DefaultFileName)
	cfg, err := config.GetOrAddServerSettings(settingsFile, exePath, 8081)
	if err != nil {
		logging.Warnf("config: %v, bridge disabled", err)
		return
	}

	engine = hostbridge.NewWaveOutEngine()
	if err := engine.InstallCapture(); err != nil {
		logging.Warnf("waveOut capture: %v, bridge disabled", err)
		return
	}

	settings := server.DefaultSettings()
	settings.Port = cfg.Port
	bridge = hostbridge.New(engine, settings)
	if err := bridge.InstallPump(); err != nil {
		logging.Warnf("message pump: %v, bridge disabled", err)
		return
	}
	if err := bridge.Start(); err != nil {
		logging.Warnf("http server: %v, bridge disabled", err)
		return
	}

	h := (*C.rtTalkInterfaceHandle)(C.malloc(C.sizeof_rtTalkInterfaceHandle))
	h.plugin_version = C.int(engine.PluginVersion())
	h.protocol_version = C.int(engine.ProtocolVersion())
	h.port = C.ushort(cfg.Port)
	h.client_name = C.CString(engine.ClientName())
	handle = h

	logging.Infof("bridge up for %s on :%d", exePath, cfg.Port)
}

func main() {}
