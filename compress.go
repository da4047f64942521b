package flexlog

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// compressionKind returns "gz", "zst", or "" based on the fixed-window
// pattern's extension (§4.5 step 4). Compression codecs themselves are an
// out-of-scope external collaborator per §1; only the decision of which one
// to invoke belongs to this package.
func compressionKind(pattern string) string {
	switch {
	case strings.HasSuffix(pattern, ".gz"):
		return "gz"
	case strings.HasSuffix(pattern, ".zst"):
		return "zst"
	default:
		return ""
	}
}

// compressInPlace replaces the file at path with a compressed copy of
// itself, atomically (compress to a temp file, then rename over path).
func compressInPlace(path, kind string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("flexlog: opening %q for compression: %w", path, err)
	}
	defer in.Close()

	tmp := path + ".tmp-compress"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("flexlog: creating %q: %w", tmp, err)
	}

	if err := writeCompressed(out, in, kind); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func writeCompressed(dst io.Writer, src io.Reader, kind string) error {
	switch kind {
	case "gz":
		w := gzip.NewWriter(dst)
		if _, err := io.Copy(w, src); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	case "zst":
		w, err := zstd.NewWriter(dst)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, src); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	default:
		return fmt.Errorf("flexlog: unknown compression kind %q", kind)
	}
}

// compressWorker is a single background goroutine per rolling-file appender
// that performs compression off the emitter's thread. The hand-off is a
// capacity-1 channel: a rotation that completes while the worker is still
// busy blocks until the slot drains, which bounds memory and preserves
// archive ordering (§4.5, §5).
type compressWorker struct {
	kind       string
	slot       chan string
	errHandler func(error)

	closeOnce sync.Once
	wg        sync.WaitGroup
}

func newCompressWorker(kind string, errHandler func(error)) *compressWorker {
	w := &compressWorker{
		kind:       kind,
		slot:       make(chan string, 1),
		errHandler: errHandler,
	}
	w.wg.Add(1)
	go w.run()
	return w
}

func (w *compressWorker) run() {
	defer w.wg.Done()
	for path := range w.slot {
		if err := compressInPlace(path, w.kind); err != nil {
			w.errHandler(err)
		}
	}
}

// Submit hands off path for compression, blocking if the one pending slot
// is already occupied.
func (w *compressWorker) Submit(path string) {
	w.slot <- path
}

// Close stops accepting work and joins the worker goroutine.
func (w *compressWorker) Close() {
	w.closeOnce.Do(func() { close(w.slot) })
	w.wg.Wait()
}
