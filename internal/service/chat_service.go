package service

import (
	"abhishek-coaching-go/internal/chatbot"
	"abhishek-coaching-go/internal/metrics"
	"time"
)

// ChatService 定义了聊天机器人的操作。
type ChatService interface {
	// Reply 直接返回一条输入对应的回复，不涉及会话。
	Reply(message string) string
	// FAQ 返回当前生效的关键词表。
	FAQ() *chatbot.Table
	// OpenSession 开启一个新会话，onMessage 在每条消息追加时被调用。
	OpenSession(onMessage func(chatbot.Message)) *chatbot.Session
}

type chatService struct {
	matcher *chatbot.Matcher
	delay   time.Duration
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(matcher *chatbot.Matcher, replyDelay time.Duration) ChatService {
	return &chatService{matcher: matcher, delay: replyDelay}
}

// meteredResponder 在匹配的同时统计命中的关键词。
type meteredResponder struct {
	matcher *chatbot.Matcher
}

func (r meteredResponder) Greeting() string {
	return r.matcher.Greeting()
}

func (r meteredResponder) Match(input string) string {
	keyword, response := r.matcher.MatchKeyword(input)
	metrics.RecordChatMessage(keyword)
	return response
}

func (s *chatService) Reply(message string) string {
	return meteredResponder{matcher: s.matcher}.Match(message)
}

func (s *chatService) FAQ() *chatbot.Table {
	return s.matcher.Table()
}

func (s *chatService) OpenSession(onMessage func(chatbot.Message)) *chatbot.Session {
	return chatbot.NewSession(meteredResponder{matcher: s.matcher},
		chatbot.WithReplyDelay(s.delay),
		chatbot.WithOnMessage(onMessage),
	)
}
