package handler

import (
	"abhishek-coaching-go/internal/chatbot"
	"abhishek-coaching-go/internal/metrics"
	"abhishek-coaching-go/internal/service"
	"abhishek-coaching-go/pkg/log"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait      = 10 * time.Second
	wsMaxMessageSize = 4096
)

// ChatHandler 负责聊天机器人的 WebSocket 连接和 HTTP 接口。
type ChatHandler struct {
	chatService service.ChatService
	upgrader    websocket.Upgrader
}

// NewChatHandler 创建一个新的 ChatHandler。
// allowOrigins 为空时允许所有来源建立 WebSocket 连接。
func NewChatHandler(chatService service.ChatService, allowOrigins []string) *ChatHandler {
	allowed := make(map[string]struct{}, len(allowOrigins))
	for _, o := range allowOrigins {
		allowed[o] = struct{}{}
	}
	return &ChatHandler{
		chatService: chatService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// inboundFrame 是客户端发来的 JSON 消息。也接受纯文本。
type inboundFrame struct {
	Text string `json:"text"`
}

func frameText(data []byte) string {
	if len(data) > 0 && data[0] == '{' {
		var f inboundFrame
		if err := json.Unmarshal(data, &f); err == nil {
			return f.Text
		}
	}
	return string(data)
}

// Handle 处理一个 WebSocket 连接，每个连接对应一个独立的会话。
func (h *ChatHandler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessageSize)

	var writeMu sync.Mutex
	session := h.chatService.OpenSession(func(m chatbot.Message) {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(m); err != nil {
			log.Warnf("写入 WebSocket 消息失败: %v", err)
		}
	})
	metrics.ChatSessionOpened()
	log.Infow("聊天会话已建立", "session", session.ID, "remote", c.ClientIP())
	defer func() {
		session.Close()
		metrics.ChatSessionClosed()
		log.Infow("聊天会话已关闭", "session", session.ID, "messages", len(session.Messages()))
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("从 WebSocket 读取消息失败: %v", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		session.Send(frameText(data))
	}
}

// ReplyRequest 是无会话的单次问答请求。
type ReplyRequest struct {
	Message string `json:"message"`
}

// Reply 对单条消息返回匹配到的回复。
func (h *ChatHandler) Reply(c *gin.Context) {
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	respondOK(c, http.StatusOK, "success", gin.H{"response": h.chatService.Reply(req.Message)})
}

// FAQ 返回当前生效的关键词表。
func (h *ChatHandler) FAQ(c *gin.Context) {
	respondOK(c, http.StatusOK, "success", h.chatService.FAQ())
}
