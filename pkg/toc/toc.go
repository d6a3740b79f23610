package toc

import (
	"strconv"
	"strings"
)

// Kind 区分音频轨与数据轨
type Kind uint8

const (
	Audio Kind = iota
	Data
)

func (k Kind) String() string {
	if k == Data {
		return "data"
	}
	return "audio"
}

// Entry 是 TOC 中一项的带标签表示，Sector 始终为非负的绝对扇区
type Entry struct {
	Sector int
	Kind   Kind
}

// Signed 转换回带符号的约定：数据轨取负
func (e Entry) Signed() int {
	if e.Kind == Data {
		return -e.Sector
	}
	return e.Sector
}

// EntryOf 从带符号的扇区值构造 Entry
func EntryOf(v int) Entry {
	if v < 0 {
		return Entry{Sector: -v, Kind: Data}
	}
	return Entry{Sector: v, Kind: Audio}
}

// TOC 是规范化的目录：每轨起始扇区加最后的 lead-out，
// 正数为音频轨，负数为数据轨。产生后不再修改。
type TOC []int

// FromEntries 将带标签的条目编码为 TOC
func FromEntries(entries []Entry) TOC {
	t := make(TOC, len(entries))
	for i, e := range entries {
		t[i] = e.Signed()
	}
	return t
}

// Entries 返回 TOC 的带标签视图
func (t TOC) Entries() []Entry {
	entries := make([]Entry, len(t))
	for i, v := range t {
		entries[i] = EntryOf(v)
	}
	return entries
}

// Tracks 返回轨道数（不含 lead-out）
func (t TOC) Tracks() int {
	if len(t) == 0 {
		return 0
	}
	return len(t) - 1
}

// Validate 检查 TOC 至少含一轨与 lead-out，且至少有一个音频轨
func (t TOC) Validate() error {
	if len(t) < 2 {
		return &FormatError{Op: "toc", Input: t.String(), Err: ErrShortTOC}
	}
	for _, v := range t[:len(t)-1] {
		if v > 0 {
			return nil
		}
	}
	return &FormatError{Op: "toc", Input: t.String(), Err: ErrNoAudioTracks}
}

// TrackBounds 返回第 i 轨（从 0 开始）的起止扇区，均为非负的绝对值。
// 下一项为数据轨时，结束扇区需要回退 LeadoutGap。
func (t TOC) TrackBounds(i int) (start, end int, err error) {
	if i < 0 || i+1 >= len(t) {
		return 0, 0, Errorf("track bounds", strconv.Itoa(i), "%w", ErrTrackRange)
	}
	if next := t[i+1]; next > 0 {
		end = next
	} else {
		end = -next - LeadoutGap
	}
	if end < 0 {
		end = -end
	}
	return EntryOf(t[i]).Sector, end, nil
}

// String 以空格连接各项，与原工具的 "TOC:" 输出一致
func (t TOC) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
