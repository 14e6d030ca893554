package main

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/PcloD/RemoteTalk/internal/audio"
)

// playback 经 PortAudio 播放一段 PCM
// 统一先转 float 再落到 int16，portaudio 流按块喂
func playback(a *audio.AudioData) error {
	if !a.Format.IsPCM() {
		return fmt.Errorf("cannot play %s data", a.Format)
	}
	if a.SampleLength() == 0 {
		return nil
	}

	floats := make([]float32, a.SampleLength())
	if err := a.ConvertSamplesToFloat(floats); err != nil {
		return err
	}
	samples := make([]int16, len(floats))
	for i, f := range floats {
		samples[i] = audio.FloatToSnorm16(f)
	}

	if err := portaudio.Initialize(); err != nil {
		return err
	}
	defer portaudio.Terminate()

	const chunkFrames = 1024
	buffer := make([]int16, chunkFrames*a.Channels)
	stream, err := portaudio.OpenDefaultStream(0, a.Channels, float64(a.Frequency), len(buffer), &buffer)
	if err != nil {
		return err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return err
	}
	defer stream.Stop()

	for pos := 0; pos < len(samples); pos += len(buffer) {
		n := copy(buffer, samples[pos:])
		for i := n; i < len(buffer); i++ {
			buffer[i] = 0
		}
		if err := stream.Write(); err != nil {
			return err
		}
	}
	return nil
}
