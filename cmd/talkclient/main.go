package main

import (
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/PcloD/RemoteTalk/internal/audio"
	"github.com/PcloD/RemoteTalk/internal/logging"
)

// talkclient 命令行客户端
// 调 /talk 拉音频帧流，拼成一段 AudioData，可存 WAV 或本地试听

func main() {
	server := flag.String("server", "127.0.0.1:8081", "Bridge server address")
	text := flag.String("text", "", "Text to speak")
	cast := flag.Int("cast", -1, "Cast id (-1 = host default)")
	pitch := flag.Float64("pitch", 0, "Pitch (0 = unchanged)")
	speed := flag.Float64("speed", 0, "Speed (0 = unchanged)")
	volume := flag.Float64("volume", 0, "Volume (0 = unchanged)")
	output := flag.String("output", "", "Write result as WAV file")
	play := flag.Bool("play", false, "Play result through the default audio device")
	flag.Parse()

	if err := logging.InitFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if *text == "" {
		fmt.Fprintln(os.Stderr, "usage: talkclient -text <text> [-output out.wav] [-play]")
		os.Exit(1)
	}

	q := url.Values{}
	q.Set("text", *text)
	if *cast >= 0 {
		q.Set("cast", strconv.Itoa(*cast))
	}
	if *pitch != 0 {
		q.Set("pitch", strconv.FormatFloat(*pitch, 'f', -1, 64))
	}
	if *speed != 0 {
		q.Set("speed", strconv.FormatFloat(*speed, 'f', -1, 64))
	}
	if *volume != 0 {
		q.Set("volume", strconv.FormatFloat(*volume, 'f', -1, 64))
	}

	resp, err := http.Get("http://" + *server + "/talk?" + q.Encode())
	if err != nil {
		logging.Fatalf("talk request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logging.Fatalf("talk request: status %d", resp.StatusCode)
	}

	// 帧流边到边拼接，终止空帧收尾
	var result audio.AudioData
	frames := 0
	for {
		var frame audio.AudioData
		if err := frame.Deserialize(resp.Body); err != nil {
			logging.Fatalf("frame decode: %v", err)
		}
		if frame.Format == audio.FormatUnknown && frame.Empty() {
			break
		}
		frames++
		result.Append(&frame)
	}
	logging.Infof("received %d frames: %s %dHz x%d, %.2fs",
		frames, result.Format, result.Frequency, result.Channels, result.Duration())

	if *output != "" {
		if err := result.ExportAsWave(*output); err != nil {
			logging.Fatalf("export wav: %v", err)
		}
		logging.Infof("saved %s", *output)
	}
	if *play {
		if err := playback(&result); err != nil {
			logging.Fatalf("playback: %v", err)
		}
	}
}
