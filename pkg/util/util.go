package util

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// legacyEncodings 按顺序尝试的本地编码，解码结果不含替换字符即视为命中
var legacyEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"gbk", simplifiedchinese.GBK},
	{"shift_jis", japanese.ShiftJIS},
}

// ReadTextFileContent 智能读取文本文件内容，自动识别编码。
// 返回的内容保证是UTF-8编码的字符串，以及识别出的编码名。
func ReadTextFileContent(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	text, name, err := DecodeText(data)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return text, name, nil
}

// DecodeText 将任意编码的 cue 文本转换为 UTF-8
func DecodeText(data []byte) (string, string, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		return string(bytes.TrimPrefix(data, utf8BOM)), "utf-8-bom", nil
	}
	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return "", "", fmt.Errorf("invalid UTF-16: %w", err)
		}
		return string(out), "utf-16", nil
	}
	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}
	for _, le := range legacyEncodings {
		out, err := le.enc.NewDecoder().Bytes(data)
		if err == nil && !bytes.ContainsRune(out, utf8.RuneError) {
			return string(out), le.name, nil
		}
	}
	// Windows-1252 能解码任意字节，作为最后的兜底
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", err
	}
	return string(out), "windows-1252", nil
}

// IsDirectory 辅助函数，检查路径是否为目录
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsCueFile 判断是否为 cue 表
func IsCueFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".cue")
}

// IsRelevantMusicFile 判断文件是否可能携带目录信息（cue 表或带标签的 FLAC）
func IsRelevantMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue", ".flac":
		return true
	default:
		return false
	}
}

// ResolvePath 将 cue 中的相对路径解析到 cue 所在目录，替代切换工作目录
func ResolvePath(baseDir, ref string) string {
	ref = filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/"))
	if filepath.IsAbs(ref) || baseDir == "" {
		return ref
	}
	return filepath.Join(baseDir, ref)
}
