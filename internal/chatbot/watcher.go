package chatbot

import (
	"abhishek-coaching-go/pkg/log"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce 等待编辑器写完文件再读取。
const reloadDebounce = 100 * time.Millisecond

// WatchTable 监听关键词表文件，文件变化时重新加载并替换 matcher 中的表。
// 监听的是文件所在目录，这样编辑器"写临时文件再改名"的保存方式也能被捕获。
// 加载失败时保留旧表。ctx 结束后停止监听。
func WatchTable(ctx context.Context, path string, matcher *Matcher) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch faq directory: %w", err)
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		log.Infof("FAQ 关键词表监听已启动: %s", target)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				time.Sleep(reloadDebounce)
				table, err := LoadTable(target)
				if err != nil {
					log.Warnf("FAQ 关键词表重新加载失败，继续使用旧表: %v", err)
					continue
				}
				matcher.Swap(table)
				log.Infow("FAQ 关键词表已重新加载", "path", target, "entries", len(table.Entries))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("FAQ 关键词表监听出错", err)
			}
		}
	}()
	return nil
}
