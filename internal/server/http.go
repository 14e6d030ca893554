package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PcloD/RemoteTalk/internal/logging"
	"github.com/PcloD/RemoteTalk/internal/talk"
	"github.com/PcloD/RemoteTalk/internal/textenc"
)

func (s *TalkServer) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.limit())
	r.GET("/ready", s.handleReady)
	r.GET("/talk", s.handleTalk)
	r.GET("/stop", s.handleStop)
	r.GET("/params", s.handleParams)
	r.GET("/ws/talk", s.handleWSTalk)
	registerDebugRoutes(s, r)
	return r
}

// limit 排队上限 + 工作协程上限
func (s *TalkServer) limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		select {
		case s.queued <- struct{}{}:
		default:
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		defer func() { <-s.queued }()

		s.slots <- struct{}{}
		defer func() { <-s.slots }()
		c.Next()
	}
}

func (s *TalkServer) handleReady(c *gin.Context) {
	if s.handler.Ready() {
		c.String(http.StatusOK, "1")
	} else {
		c.String(http.StatusOK, "0")
	}
}

// parseTalkQuery 把查询参数翻译成 TalkParams，逐项置位
func parseTalkQuery(c *gin.Context) (talk.TalkParams, bool) {
	var p talk.TalkParams
	set := map[string]func(float64){
		"mute":       func(f float64) { p.SetMute(f != 0) },
		"force_mono": func(f float64) { p.SetForceMono(f != 0) },
		"cast":       func(f float64) { p.SetCast(int32(f)) },
		"volume":     func(f float64) { p.SetVolume(float32(f)) },
		"speed":      func(f float64) { p.SetSpeed(float32(f)) },
		"pitch":      func(f float64) { p.SetPitch(float32(f)) },
		"intonation": func(f float64) { p.SetIntonation(float32(f)) },
		"alpha":      func(f float64) { p.SetAlpha(float32(f)) },
		"normal":     func(f float64) { p.SetNormal(float32(f)) },
		"joy":        func(f float64) { p.SetJoy(float32(f)) },
		"anger":      func(f float64) { p.SetAnger(float32(f)) },
		"sorrow":     func(f float64) { p.SetSorrow(float32(f)) },
	}
	for key, apply := range set {
		raw, ok := c.GetQuery(key)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.String(http.StatusBadRequest, "invalid %s: %s", key, raw)
			return p, false
		}
		apply(f)
	}
	return p, true
}

func (s *TalkServer) handleTalk(c *gin.Context) {
	if !s.handler.Ready() {
		c.String(http.StatusServiceUnavailable, "engine not ready")
		return
	}
	text, ok := c.GetQuery("text")
	if !ok || text == "" {
		c.String(http.StatusBadRequest, "text required")
		return
	}
	params, ok := parseTalkQuery(c)
	if !ok {
		return
	}
	ansi, err := textenc.ToANSI(text)
	if err != nil {
		c.String(http.StatusBadRequest, "text not encodable: %v", err)
		return
	}

	c.Header("Content-Type", "application/octet-stream")
	stream := NewAudioStream(c.Writer)
	msg := NewTalkMessage(params, string(ansi), stream)
	log := logging.WithRequest(msg.ID())
	log.Debugf("talk queued, %d bytes of text", len(ansi))

	s.AddMessage(msg)
	if !msg.Wait() {
		// 引擎始终没有受理；未写出任何字节时还能回 503
		busy := !stream.Wrote()
		if busy {
			// 不再写终止帧，响应体只留 503 文本
			stream.failed.Store(true)
		}
		stream.Close()
		<-stream.Done()
		if busy {
			c.String(http.StatusServiceUnavailable, "engine busy")
		}
		log.Warnf("talk timed out")
		return
	}
	stream.Close()
	<-stream.Done()
	log.Debugf("talk finished")
}

func (s *TalkServer) handleStop(c *gin.Context) {
	msg := NewStopMessage()
	s.AddMessage(msg)
	msg.Wait()
	c.String(http.StatusOK, "ok")
}

func (s *TalkServer) handleParams(c *gin.Context) {
	if !s.handler.Ready() {
		c.String(http.StatusServiceUnavailable, "engine not ready")
		return
	}
	msg := NewGetParamsMessage()
	s.AddMessage(msg)
	if !msg.Wait() {
		c.String(http.StatusServiceUnavailable, "engine busy")
		return
	}
	casts := msg.Casts
	if casts == nil {
		casts = []talk.CastInfo{}
	}
	c.JSON(http.StatusOK, gin.H{
		"params":  msg.Params,
		"avators": casts,
	})
}
