package chatbot

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sender 标识消息的发送方。
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message 是会话中的一条消息。Text 可能包含少量 HTML 标记。
type Message struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	Sender Sender    `json:"sender"`
	SentAt time.Time `json:"sentAt"`
}

// Responder 为会话提供开场白和回复。
type Responder interface {
	Greeting() string
	Match(input string) string
}

// DefaultReplyDelay 是机器人回复前的模拟等待时间。
const DefaultReplyDelay = time.Second

type pendingReply struct {
	msg   Message
	due   time.Time
	timer *time.Timer
}

// Session 是一次聊天窗口的消息记录，只追加、不持久化。
// 用户消息立即追加，机器人回复在延迟后追加；关闭会话会取消所有未发出的回复。
type Session struct {
	ID string

	responder Responder
	delay     time.Duration
	onMessage func(Message)

	// deliverMu 保证回调按追加顺序执行，必须先于 mu 获取。
	deliverMu sync.Mutex
	mu        sync.Mutex
	messages  []Message
	pending   []*pendingReply
	closed    bool
}

// SessionOption 配置 Session。
type SessionOption func(*Session)

// WithReplyDelay 设置机器人回复延迟，负数按 0 处理。
func WithReplyDelay(d time.Duration) SessionOption {
	return func(s *Session) {
		if d < 0 {
			d = 0
		}
		s.delay = d
	}
}

// WithOnMessage 设置每追加一条消息时的回调，包括开场白。
// 回调按消息顺序串行调用。
func WithOnMessage(fn func(Message)) SessionOption {
	return func(s *Session) {
		s.onMessage = fn
	}
}

// NewSession 创建新会话，并以一条机器人开场白作为第一条消息。
func NewSession(responder Responder, opts ...SessionOption) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		responder: responder,
		delay:     DefaultReplyDelay,
	}
	for _, opt := range opts {
		opt(s)
	}

	greeting := newMessage(responder.Greeting(), SenderBot)
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	s.mu.Lock()
	s.messages = append(s.messages, greeting)
	s.mu.Unlock()
	s.notify(greeting)
	return s
}

func newMessage(text string, sender Sender) Message {
	return Message{ID: uuid.NewString(), Text: text, Sender: sender, SentAt: time.Now()}
}

func (s *Session) notify(msgs ...Message) {
	if s.onMessage == nil {
		return
	}
	for _, m := range msgs {
		s.onMessage(m)
	}
}

// Send 追加一条用户消息并安排机器人回复。
// 去除空白后为空的输入被忽略，返回 false；会话已关闭时同样返回 false。
func (s *Session) Send(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	userMsg := newMessage(text, SenderUser)
	s.messages = append(s.messages, userMsg)

	// 回复在发送时就确定，之后关键词表的变化不影响它。
	reply := &pendingReply{
		msg: newMessage(s.responder.Match(text), SenderBot),
		due: time.Now().Add(s.delay),
	}
	s.pending = append(s.pending, reply)
	reply.timer = time.AfterFunc(s.delay, s.flushDue)
	s.mu.Unlock()

	s.notify(userMsg)
	return true
}

// flushDue 按顺序追加所有已到期的回复。
// 各回复的到期时间单调递增，所以从队头取到第一个未到期的为止即可。
func (s *Session) flushDue() {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	now := time.Now()
	var ready []Message
	for len(s.pending) > 0 && !s.pending[0].due.After(now) {
		r := s.pending[0]
		s.pending = s.pending[1:]
		r.msg.SentAt = now
		s.messages = append(s.messages, r.msg)
		ready = append(ready, r.msg)
	}
	s.mu.Unlock()

	s.notify(ready...)
}

// Messages 返回当前消息记录的副本。
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Pending 返回尚未发出的机器人回复数量。
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close 关闭会话并取消所有未发出的回复。重复调用无副作用。
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, r := range s.pending {
		r.timer.Stop()
	}
	s.pending = nil
}

// Closed 判断会话是否已关闭。
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
