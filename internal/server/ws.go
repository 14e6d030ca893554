package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/PcloD/RemoteTalk/internal/logging"
	"github.com/PcloD/RemoteTalk/internal/textenc"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// wsBinaryWriter 把每次 Write 作为一条二进制消息推送
type wsBinaryWriter struct {
	conn *websocket.Conn
}

func (w wsBinaryWriter) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// handleWSTalk /talk 的推送变体：同一帧序列走 WebSocket 二进制消息
// 终止空帧之后正常关闭连接
func (s *TalkServer) handleWSTalk(c *gin.Context) {
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

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	stream := NewAudioStream(wsBinaryWriter{conn})
	msg := NewTalkMessage(params, string(ansi), stream)
	log := logging.WithRequest(msg.ID())
	log.Debugf("ws talk queued")

	s.AddMessage(msg)
	msg.Wait()
	stream.Close()
	<-stream.Done()

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
