// Package projector 将规范 TOC 投影为外部光盘数据库使用的查询格式。
// 所有函数都是只读的纯函数。
package projector

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/yleoer/cdtoc/pkg/toc"
)

const (
	// tocIDLength 是计算 TOC ID 前补零后的字符串长度
	tocIDLength = 800
)

// ctdbEncoding 把标准 base64 中的 '+' '/' '=' 替换成 CTDB 使用的 '.' '_' '-'
var ctdbEncoding = strings.NewReplacer("+", ".", "/", "_", "=", "-")

// MusicBrainz 返回 MusicBrainz cdlookup 需要的序列：
// 首轨号、末音频轨号、音频结束扇区，随后是每个音频轨的起始扇区。
// 位于末尾的数据轨（增强型 CD）被跳过。
func MusicBrainz(t toc.TOC) ([]int, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	lastAudio := len(t) - 1
	for lastAudio > 0 && t[lastAudio-1] < 0 {
		lastAudio--
	}
	_, end, err := t.TrackBounds(lastAudio - 1)
	if err != nil {
		return nil, err
	}

	out := make([]int, 0, 3+lastAudio)
	out = append(out, 1, lastAudio, end)
	for _, e := range t.Entries()[:lastAudio] {
		out = append(out, e.Sector)
	}
	return out, nil
}

// MusicBrainzString 以空格连接 MusicBrainz 序列
func MusicBrainzString(t toc.TOC) (string, error) {
	values, err := MusicBrainz(t)
	if err != nil {
		return "", err
	}
	return joinInts(values, " "), nil
}

// CTDB 返回 CUETools DB 模糊查询的 TOC：所有值改为相对 lead-in，保留符号。
// 只占据 lead-in 的数据轨 (-150) 写作 "-0"。
func CTDB(t toc.TOC) ([]string, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	out := make([]string, len(t))
	for i, v := range t {
		switch {
		case v == -toc.LeadIn:
			out[i] = "-0"
		case v > 0:
			out[i] = strconv.Itoa(v - toc.LeadIn)
		default:
			out[i] = strconv.Itoa(v + toc.LeadIn)
		}
	}
	return out, nil
}

// CTDBString 以冒号连接 CTDB 序列
func CTDBString(t toc.TOC) (string, error) {
	values, err := CTDB(t)
	if err != nil {
		return "", err
	}
	return strings.Join(values, ":"), nil
}

// CTDBTOCID 计算 CUETools DB 的 TOC ID。
// 算法须与数据库逐字节一致：8 位大写十六进制偏移拼接、补 '0' 至 800 字符、
// SHA-1、base64 后替换字符表。
func CTDBTOCID(t toc.TOC) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	firstAudio, positives := -1, 0
	for i, v := range t {
		if v > 0 {
			if firstAudio < 0 {
				firstAudio = i
			}
			positives++
		}
	}
	// lead-out 为正数时也被计入，因此减一
	audioTracks := positives - 1
	if audioTracks < 1 {
		return "", &toc.FormatError{Op: "ctdb tocid", Input: t.String(), Err: toc.ErrNoAudioTracks}
	}
	_, leadout, err := t.TrackBounds(firstAudio + audioTracks - 1)
	if err != nil {
		return "", err
	}

	pregap := t[firstAudio]
	var sb strings.Builder
	for tr := firstAudio + 1; tr < firstAudio+audioTracks; tr++ {
		fmt.Fprintf(&sb, "%08X", toc.EntryOf(t[tr]).Sector-pregap)
	}
	fmt.Fprintf(&sb, "%08X", leadout-pregap)
	for sb.Len() < tocIDLength {
		sb.WriteByte('0')
	}

	sum := sha1.Sum([]byte(sb.String()))
	return ctdbEncoding.Replace(base64.StdEncoding.EncodeToString(sum[:])), nil
}

func joinInts(values []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, sep)
}
