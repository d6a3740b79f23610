package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/yleoer/cdtoc/pkg/lookup"
)

type Config struct {
	MusicBrainzURL  string        `json:"musicbrainz_url"`  // MusicBrainz cdlookup 地址
	CTDBURL         string        `json:"ctdb_url"`         // CUETools DB 浏览地址
	CTDBLookupURL   string        `json:"ctdb_lookup_url"`  // CUETools DB 模糊查询接口
	WatchDir        string        `json:"watch_dir"`        // watch 模式监听的目录
	ScanDelay       time.Duration `json:"scan_delay"`       // 文件变化后延迟多久再扫描
	ConvertT2S      bool          `json:"convert_t2s"`      // 显示标题时是否繁转简
	PrefetchWorkers int           `json:"prefetch_workers"` // 并发读取音频时长的数量
}

const (
	watchDir        = "."
	scanDelay       = 2 * time.Second
	prefetchWorkers = 4
)

// LoadConfig 从环境变量或默认值加载配置。
// 未指定 envFiles 时尝试加载当前目录的 .env 文件，不存在也不报错。
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		MusicBrainzURL:  os.Getenv("MUSICBRAINZ_LOOKUP_URL"),
		CTDBURL:         os.Getenv("CTDB_URL"),
		CTDBLookupURL:   os.Getenv("CTDB_LOOKUP_URL"),
		WatchDir:        os.Getenv("WATCH_DIR"),
		ScanDelay:       parseDurationOrDefault(os.Getenv("SCAN_DELAY"), scanDelay),
		ConvertT2S:      parseBoolOrDefault(os.Getenv("CONVERT_T2S"), false),
		PrefetchWorkers: parseIntOrDefault(os.Getenv("PREFETCH_WORKERS"), prefetchWorkers),
	}

	// 设置默认值
	if cfg.MusicBrainzURL == "" {
		cfg.MusicBrainzURL = lookup.DefaultMusicBrainzURL
	}
	if cfg.CTDBURL == "" {
		cfg.CTDBURL = lookup.DefaultCTDBURL
	}
	if cfg.CTDBLookupURL == "" {
		cfg.CTDBLookupURL = lookup.DefaultCTDBLookupURL
	}
	if cfg.WatchDir == "" {
		cfg.WatchDir = watchDir
	}
	if cfg.PrefetchWorkers < 1 {
		log.Printf("Warning: PREFETCH_WORKERS must be positive, using default %d", prefetchWorkers)
		cfg.PrefetchWorkers = prefetchWorkers
	}
	return cfg, nil
}

func parseDurationOrDefault(s string, defaultValue time.Duration) time.Duration {
	if s == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Warning: Could not parse duration '%s', using default '%v'. Error: %v", s, defaultValue, err)
		return defaultValue
	}
	return d
}

func parseIntOrDefault(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Warning: Could not parse integer '%s', using default '%d'. Error: %v", s, defaultValue, err)
		return defaultValue
	}
	return n
}

func parseBoolOrDefault(s string, defaultValue bool) bool {
	if s == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Printf("Warning: Could not parse boolean '%s', using default '%v'. Error: %v", s, defaultValue, err)
		return defaultValue
	}
	return b
}
