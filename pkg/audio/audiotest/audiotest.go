// Package audiotest 为测试生成最小的 WAV 与 FLAC 文件
package audiotest

import (
	"bytes"
	"encoding/binary"
	"os"
	"testing"
)

// WriteWav 写入一个 44.1kHz 16bit 立体声的静音 WAV 文件，frames 为采样帧数
func WriteWav(t testing.TB, path string, frames int) {
	t.Helper()
	const channels, rate, bits = 2, 44100, 16
	dataSize := frames * channels * bits / 8
	var buf bytes.Buffer
	le := func(v any) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatal(err)
		}
	}
	buf.WriteString("RIFF")
	le(uint32(36 + dataSize))
	buf.WriteString("WAVEfmt ")
	le(uint32(16))
	le(uint16(1))
	le(uint16(channels))
	le(uint32(rate))
	le(uint32(rate * channels * bits / 8))
	le(uint16(channels * bits / 8))
	le(uint16(bits))
	buf.WriteString("data")
	le(uint32(dataSize))
	buf.Write(make([]byte, dataSize))
	write(t, path, buf.Bytes())
}

// WriteFlac 写入只含 StreamInfo 和 Vorbis 注释块、没有音频帧的 FLAC 文件
func WriteFlac(t testing.TB, path string, samples uint64, tags map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("fLaC")

	blockHeader := func(last bool, typ byte, length int) {
		b := typ
		if last {
			b |= 0x80
		}
		buf.Write([]byte{b, byte(length >> 16), byte(length >> 8), byte(length)})
	}

	si := make([]byte, 34)
	binary.BigEndian.PutUint16(si[0:], 4096)
	binary.BigEndian.PutUint16(si[2:], 4096)
	// 采样率 20bit | 声道数-1 3bit | 位深-1 5bit | 总采样数 36bit
	packed := uint64(44100)<<44 | uint64(2-1)<<41 | uint64(16-1)<<36 | samples
	binary.BigEndian.PutUint64(si[10:], packed)
	blockHeader(false, 0, len(si))
	buf.Write(si)

	var vc bytes.Buffer
	putString := func(s string) {
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
		vc.Write(n[:])
		vc.WriteString(s)
	}
	putString("cdtoc test")
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(tags)))
	vc.Write(count[:])
	for k, v := range tags {
		putString(k + "=" + v)
	}
	blockHeader(true, 4, vc.Len())
	buf.Write(vc.Bytes())

	write(t, path, buf.Bytes())
}

func write(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}
