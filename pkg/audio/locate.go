package audio

import (
	"os"
	"path/filepath"
	"strings"
)

// candidateExts 是 cue 所引用文件不存在时依次尝试的扩展名
// （常见于把 WAV 压缩为 FLAC 后没有修改 cue 的情况）
var candidateExts = []string{".flac", ".wav", ".mp3", ".ogg"}

// Locate 返回实际存在的音频文件路径；找不到替代文件时原样返回
func Locate(path string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range candidateExts {
		alt := stem + ext
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}
	return path
}
