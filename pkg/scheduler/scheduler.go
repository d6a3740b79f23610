package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yleoer/cdtoc/pkg/lookup"
	"github.com/yleoer/cdtoc/pkg/report"
	"github.com/yleoer/cdtoc/pkg/scanner"
	"github.com/yleoer/cdtoc/pkg/util"
)

// TaskScheduler 负责在 watch 模式下调度扫描任务，并输出报告
type TaskScheduler struct {
	delay             time.Duration
	discScanner       *scanner.DiscScanner
	links             *lookup.Builder
	out               io.Writer
	logger            *log.Logger
	scanMutex         sync.Mutex // 保护扫描过程、输出与 ctx
	reported          map[string]time.Time
	pendingScans      map[string]*time.Timer
	pendingScansMutex sync.Mutex // 保护 pendingScans map
	ctx               context.Context
}

// NewTaskScheduler 创建一个新的 TaskScheduler 实例
func NewTaskScheduler(
	delay time.Duration,
	discScanner *scanner.DiscScanner,
	links *lookup.Builder,
	out io.Writer,
	logger *log.Logger,
) *TaskScheduler {
	return &TaskScheduler{
		delay:        delay,
		discScanner:  discScanner,
		links:        links,
		out:          out,
		logger:       logger,
		reported:     make(map[string]time.Time),
		pendingScans: make(map[string]*time.Timer),
		ctx:          context.Background(),
	}
}

// InitialScan 扫描目录中已有的 cue 与 FLAC 文件
func (ts *TaskScheduler) InitialScan(root string) {
	ts.logger.Printf("Performing initial scan of %s...", root)
	entries, err := os.ReadDir(root)
	if err != nil {
		ts.logger.Printf("ERROR: Error reading directory %s for initial scan: %v", root, err)
		return
	}
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if !entry.IsDir() && util.IsRelevantMusicFile(path) {
			ts.TriggerScan(path)
		}
	}
	ts.logger.Println("Initial scan scheduled.")
}

// TriggerScan 将一个文件添加到延迟扫描队列，重复触发会重置计时器
func (ts *TaskScheduler) TriggerScan(path string) {
	ts.pendingScansMutex.Lock()
	defer ts.pendingScansMutex.Unlock()
	if timer, ok := ts.pendingScans[path]; ok {
		timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(ts.delay, func() {
		ts.performScan(path)
		ts.pendingScansMutex.Lock()
		if ts.pendingScans[path] == timer {
			delete(ts.pendingScans, path)
		}
		ts.pendingScansMutex.Unlock()
	})
	ts.pendingScans[path] = timer
	ts.logger.Printf("Scheduled scan for %s in %v", path, ts.delay)
}

// Pending 返回尚未执行的扫描数量
func (ts *TaskScheduler) Pending() int {
	ts.pendingScansMutex.Lock()
	defer ts.pendingScansMutex.Unlock()
	return len(ts.pendingScans)
}

// performScan 执行实际的扫描，同一文件内容不变时不重复报告
func (ts *TaskScheduler) performScan(path string) {
	ts.scanMutex.Lock()
	defer ts.scanMutex.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		ts.logger.Printf("  -> %s disappeared before scan: %v", path, err)
		delete(ts.reported, path)
		return
	}
	if last, ok := ts.reported[path]; ok && last.Equal(info.ModTime()) {
		ts.logger.Printf("  -> %s unchanged since last report. Skipping.", path)
		return
	}

	ts.logger.Printf("-> Scanning %s", path)
	disc, err := ts.discScanner.Scan(ts.ctx, path)
	if err != nil {
		ts.logger.Printf("ERROR: Error scanning %s: %v", path, err)
		return
	}
	links, err := ts.links.All(disc.TOC)
	if err != nil {
		ts.logger.Printf("ERROR: Error building lookup links for %s: %v", path, err)
		return
	}
	if err := report.Write(ts.out, disc, links); err != nil {
		ts.logger.Printf("ERROR: Error writing report for %s: %v", path, err)
		return
	}
	ts.reported[path] = info.ModTime()
}

// HandleEvent 处理一个文件系统事件。新建的一级子目录会被加入监听。
func (ts *TaskScheduler) HandleEvent(watcher *fsnotify.Watcher, root string, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	if util.IsDirectory(event.Name) {
		if event.Op&fsnotify.Create != 0 && filepath.Dir(event.Name) == root && watcher != nil {
			ts.logger.Printf("  -> New directory created: %s. Watching it.", event.Name)
			if err := watcher.Add(event.Name); err != nil {
				ts.logger.Printf("ERROR: Error adding %s to watcher: %v", event.Name, err)
				return
			}
			ts.InitialScan(event.Name)
		}
		return
	}
	if !util.IsRelevantMusicFile(event.Name) {
		return
	}
	ts.TriggerScan(event.Name)
}

// Watch 监听 root 目录直到 ctx 结束
func (ts *TaskScheduler) Watch(ctx context.Context, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("error adding %s to watcher: %w", root, err)
	}
	ts.scanMutex.Lock()
	ts.ctx = ctx
	ts.scanMutex.Unlock()
	ts.InitialScan(root)
	ts.logger.Printf("Monitoring %s for cue sheets and FLAC files...", root)

	for {
		select {
		case <-ctx.Done():
			ts.stopPending()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			ts.logger.Printf("Watcher event: %s, on %s", event.Op.String(), event.Name)
			ts.HandleEvent(watcher, root, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ts.logger.Printf("ERROR: Watcher error: %v", err)
		}
	}
}

func (ts *TaskScheduler) stopPending() {
	ts.pendingScansMutex.Lock()
	defer ts.pendingScansMutex.Unlock()
	for path, timer := range ts.pendingScans {
		timer.Stop()
		delete(ts.pendingScans, path)
	}
}
