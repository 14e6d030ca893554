package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PcloD/RemoteTalk/internal/hostbridge"
	"github.com/PcloD/RemoteTalk/internal/logging"
	"github.com/PcloD/RemoteTalk/internal/server"
	"github.com/PcloD/RemoteTalk/internal/talk"
)

// mockhost 不挂真实宿主，用内置引擎跑完整的桥接服务器
// 客户端联调与协议回归都靠它

func main() {
	port := flag.Int("port", 8081, "HTTP port")
	frames := flag.Int("frames", 4, "Frames per talk")
	frameBytes := flag.Int("frame-bytes", 4410, "Bytes per frame")
	interval := flag.Duration("interval", 50*time.Millisecond, "Delay between frames")
	flag.Parse()

	if err := logging.InitFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	engine := talk.NewMockEngine()
	engine.FrameCount = *frames
	engine.FrameBytes = *frameBytes
	engine.FrameInterval = *interval

	settings := server.DefaultSettings()
	settings.Port = uint16(*port)

	bridge := hostbridge.New(engine, settings)
	if err := bridge.Start(); err != nil {
		logging.Fatalf("start bridge: %v", err)
	}
	defer bridge.Shutdown()
	logging.Infof("mock host on :%d (%d frames x %d bytes per talk)", *port, *frames, *frameBytes)

	// 模拟引擎线程
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				bridge.ProcessMessages()
				time.Sleep(10 * time.Millisecond)
			}
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	close(done)
}
