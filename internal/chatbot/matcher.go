// Package chatbot 实现网站聊天窗口背后的 FAQ 关键词匹配与会话。
package chatbot

import (
	"strings"
	"sync/atomic"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Entry 是关键词表中的一项。
type Entry struct {
	Keyword  string `yaml:"keyword" json:"keyword"`
	Response string `yaml:"response" json:"response"`
}

// Table 是有序的关键词表。Entries 的顺序即匹配顺序，命中第一个即返回。
type Table struct {
	Greeting string  `yaml:"greeting" json:"greeting"`
	Default  string  `yaml:"default" json:"default"`
	Entries  []Entry `yaml:"entries" json:"entries"`
}

const (
	defaultGreeting = "Hello! I'm here to help you with information about <span style='color: #ff8c00'>Abhishek Coaching Classes</span>. How can I assist you?"
	defaultResponse = "Thank you for your question. For more detailed information, please contact us at +91 9876543210 or fill out our admission form."
)

// DefaultTable 返回内置的六条关键词。
func DefaultTable() *Table {
	return &Table{
		Greeting: defaultGreeting,
		Default:  defaultResponse,
		Entries: []Entry{
			{Keyword: "courses", Response: "We offer Lakshya 90 (CBSE Class 10), Sankalp (Navodaya Prep), MIT30 (Spoken English), and MIB 1.0 (Biology NCERT). Visit our Courses page for detailed information."},
			{Keyword: "fees", Response: "Course fees vary: Lakshya 90 (₹6,000), Sankalp (₹8,000-₹15,000), MIT30 (₹1,499), MIB 1.0 (₹499/month or ₹4,000 one-time). Mock tests are ₹300/month."},
			{Keyword: "timing", Response: "All classes are scheduled between 4 PM to 9 PM. Specific slots are allocated by the admin."},
			{Keyword: "location", Response: "Please contact us at +91 9876543210 for our exact location."},
			{Keyword: "admission", Response: "You can fill out the admission form on our website. We will contact you within 24-48 hours."},
			{Keyword: "mock test", Response: "Mock tests are optional and cost ₹300 per month. They are conducted offline at our coaching center."},
		},
	}
}

// normalize 只做小写转换，不去除空白和标点。
// cases.Caser 有内部状态，不能跨 goroutine 共享，所以每次新建。
func normalize(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Lookup 返回第一个被输入包含的关键词项；没有命中时 ok 为 false。
func (t *Table) Lookup(input string) (entry Entry, ok bool) {
	text := normalize(input)
	for _, e := range t.Entries {
		if strings.Contains(text, e.Keyword) {
			return e, true
		}
	}
	return Entry{}, false
}

// Respond 返回输入对应的回复，没有命中时返回默认回复。
func (t *Table) Respond(input string) string {
	if e, ok := t.Lookup(input); ok {
		return e.Response
	}
	return t.Default
}

// Matcher 持有当前生效的关键词表，支持在运行中整体替换。
type Matcher struct {
	table atomic.Pointer[Table]
}

// NewMatcher 使用给定的表创建 Matcher，table 为 nil 时使用内置表。
func NewMatcher(table *Table) *Matcher {
	if table == nil {
		table = DefaultTable()
	}
	m := &Matcher{}
	m.table.Store(table)
	return m
}

// Table 返回当前生效的表，调用方不应修改它。
func (m *Matcher) Table() *Table {
	return m.table.Load()
}

// Swap 替换当前生效的表，正在进行的匹配不受影响。
func (m *Matcher) Swap(table *Table) {
	if table != nil {
		m.table.Store(table)
	}
}

// Greeting 返回会话开场白。
func (m *Matcher) Greeting() string {
	return m.table.Load().Greeting
}

// Match 返回输入对应的回复。
func (m *Matcher) Match(input string) string {
	return m.table.Load().Respond(input)
}

// MatchKeyword 与 Match 相同，但同时返回命中的关键词，未命中时关键词为空。
func (m *Matcher) MatchKeyword(input string) (keyword, response string) {
	t := m.table.Load()
	if e, ok := t.Lookup(input); ok {
		return e.Keyword, e.Response
	}
	return "", t.Default
}
