// Package config 维护启动器旁的主机配置文件
// 顶层对象以可执行文件绝对路径为键，值形如 {"port": 8081}
// 条目首次启动时创建，之后桥接层只读不改
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const DefaultFileName = "RemoteTalkServer.json"

const (
	portMin = 1024
	portMax = 65535
)

// ServerSettings 单个主机的桥接服务器设置
type ServerSettings struct {
	Port uint16 `json:"port"`
}

// HostMap 配置文件的完整内容
type HostMap map[string]ServerSettings

// Load 读取配置文件；文件不存在时返回空表
func Load(path string) (HostMap, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return HostMap{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	hosts := HostMap{}
	if err := json.Unmarshal(raw, &hosts); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return hosts, nil
}

// Save 原样写回
func Save(path string, hosts HostMap) error {
	raw, err := json.MarshalIndent(hosts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// GetOrAddServerSettings 取出 exePath 的设置，缺失时分配端口并落盘
// 端口从 defaultPort 起取第一个未被其他条目占用的值，限定在 1024..65535
// 环境变量 RT_PORT 只覆盖新建条目的起始端口
func GetOrAddServerSettings(path, exePath string, defaultPort uint16) (ServerSettings, error) {
	abs, err := filepath.Abs(exePath)
	if err != nil {
		return ServerSettings{}, fmt.Errorf("resolve exe path: %w", err)
	}

	hosts, err := Load(path)
	if err != nil {
		return ServerSettings{}, err
	}
	if s, ok := hosts[abs]; ok {
		return s, nil
	}

	start := defaultPort
	if env := os.Getenv("RT_PORT"); env != "" {
		if p, err := strconv.ParseUint(env, 10, 16); err == nil {
			start = uint16(p)
		}
	}
	if start < portMin {
		start = portMin
	}

	used := map[uint16]bool{}
	for _, s := range hosts {
		used[s.Port] = true
	}
	port := start
	for used[port] {
		if port == portMax {
			return ServerSettings{}, fmt.Errorf("no free port from %d", start)
		}
		port++
	}

	settings := ServerSettings{Port: port}
	hosts[abs] = settings
	if err := Save(path, hosts); err != nil {
		return ServerSettings{}, err
	}
	return settings, nil
}
