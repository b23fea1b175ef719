package chatbot

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadTable 从 YAML 文件读取关键词表。
// 关键词统一转为小写；缺少 greeting 或 default 时使用内置文案。
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faq table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable 解析 YAML 格式的关键词表。
func ParseTable(data []byte) (*Table, error) {
	var raw Table
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse faq table: %w", err)
	}

	builtin := DefaultTable()
	table := &Table{
		Greeting: strings.TrimSpace(raw.Greeting),
		Default:  strings.TrimSpace(raw.Default),
		Entries:  make([]Entry, 0, len(raw.Entries)),
	}
	if table.Greeting == "" {
		table.Greeting = builtin.Greeting
	}
	if table.Default == "" {
		table.Default = builtin.Default
	}

	seen := make(map[string]struct{}, len(raw.Entries))
	for i, e := range raw.Entries {
		keyword := normalize(strings.TrimSpace(e.Keyword))
		if keyword == "" {
			return nil, fmt.Errorf("faq entry %d: empty keyword", i)
		}
		if strings.TrimSpace(e.Response) == "" {
			return nil, fmt.Errorf("faq entry %q: empty response", keyword)
		}
		if _, dup := seen[keyword]; dup {
			return nil, fmt.Errorf("faq entry %q: duplicate keyword", keyword)
		}
		seen[keyword] = struct{}{}
		table.Entries = append(table.Entries, Entry{Keyword: keyword, Response: e.Response})
	}
	if len(table.Entries) == 0 {
		return nil, fmt.Errorf("faq table has no entries")
	}
	return table, nil
}
