package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"golang.org/x/sync/errgroup"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// DurationFunc 返回音频文件的时长（秒）
type DurationFunc func(path string) (float64, error)

// Duration 根据扩展名读取音频文件的时长，只读取流头部信息
func Duration(path string) (float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		return flacDuration(path)
	case ".wav", ".wave":
		return beepDuration(path, func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
			return wav.Decode(f)
		})
	case ".mp3":
		return beepDuration(path, func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
			return mp3.Decode(f)
		})
	case ".ogg", ".oga":
		return beepDuration(path, func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
			return vorbis.Decode(f)
		})
	default:
		return 0, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}
}

func beepDuration(path string, decode func(*os.File) (beep.StreamSeekCloser, beep.Format, error)) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	streamer, format, err := decode(f)
	if err != nil {
		return 0, fmt.Errorf("failed to read stream header of %s: %w", filepath.Base(path), err)
	}
	defer streamer.Close()
	if format.SampleRate == 0 {
		return 0, fmt.Errorf("%s: zero sample rate", filepath.Base(path))
	}
	return float64(streamer.Len()) / float64(format.SampleRate), nil
}

// Prefetch 并发读取多个文件的时长。cue 解码按路径取值，与调用顺序无关，
// 因此可以在顺序扫描指令之前提前取得。
func Prefetch(ctx context.Context, paths []string, workers int, fn DurationFunc) (map[string]float64, error) {
	if workers < 1 {
		workers = 1
	}
	var mu sync.Mutex
	out := make(map[string]float64, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := fn(p)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			mu.Lock()
			out[p] = d
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Cached 返回先查预取结果、查不到再调用 fn 的 DurationFunc
func Cached(known map[string]float64, fn DurationFunc) DurationFunc {
	return func(path string) (float64, error) {
		if d, ok := known[path]; ok {
			return d, nil
		}
		return fn(path)
	}
}
