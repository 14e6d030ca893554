package main

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

// launcher 定位宿主、挂起启动、注入钩子库、等桥上线
// 退出码即选定端口，失败为 -1（CLI 契约，沿袭既有工具链）

func main() {
	os.Exit(run())
}

// waitUntilServerRespond 轮询 /ready 直到应答或超时
func waitUntilServerRespond(port uint16, timeout time.Duration) bool {
	client := &http.Client{Timeout: 500 * time.Millisecond}
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://127.0.0.1:%d/ready", port)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}
