package ufsclient

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	barCells    = 30
	redrawEvery = 150 * time.Millisecond
)

// progressBar печатает строку вида "Uploading a.bin [=====     ] 42% 1.2 MB/2.9 MB 3.1 MB/s".
// Методы nil-бара ничего не делают, поэтому вызывающему не нужно проверять, включён ли вывод.
type progressBar struct {
	out    io.Writer
	label  string
	total  int64
	done   atomic.Int64
	start  time.Time
	closed atomic.Bool

	mu       sync.Mutex
	drawnAt  time.Time
	drawnLen int
}

// newProgressBar возвращает nil, если out не задан.
func newProgressBar(out io.Writer, label string, total int64) *progressBar {
	if out == nil {
		return nil
	}
	return &progressBar{out: out, label: label, total: total, start: time.Now()}
}

// AddBytes учитывает очередную порцию данных и при необходимости перерисовывает строку.
func (p *progressBar) AddBytes(n int64) {
	if p == nil || n <= 0 || p.closed.Load() {
		return
	}
	p.done.Add(n)
	p.render(false, "")
}

func (p *progressBar) render(force bool, tail string) {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if !force && (p.closed.Load() || now.Sub(p.drawnAt) < redrawEvery) {
		return
	}
	p.drawnAt = now
	p.drawLocked(p.status(now)+tail, "")
}

// drawLocked перезаписывает текущую строку терминала, затирая остаток предыдущей.
func (p *progressBar) drawLocked(line, end string) {
	pad := ""
	if p.drawnLen > len(line) {
		pad = strings.Repeat(" ", p.drawnLen-len(line))
	}
	p.drawnLen = len(line)
	fmt.Fprint(p.out, "\r", line, pad, end)
}

func (p *progressBar) status(now time.Time) string {
	done := p.done.Load()

	var rate string
	if elapsed := now.Sub(p.start).Seconds(); elapsed > 0 {
		rate = " " + humanBytes(int64(float64(done)/elapsed)) + "/s"
	}

	if p.total <= 0 {
		return fmt.Sprintf("%s %s%s", p.label, humanBytes(done), rate)
	}

	frac := float64(done) / float64(p.total)
	if frac > 1 {
		frac = 1
	}
	cells := int(frac*barCells + 0.5)
	return fmt.Sprintf("%s [%s%s] %3d%% %s/%s%s",
		p.label,
		strings.Repeat("=", cells), strings.Repeat(" ", barCells-cells),
		int(frac*100+0.5),
		humanBytes(done), humanBytes(p.total), rate)
}

func (p *progressBar) Finish() { p.stop(nil) }

func (p *progressBar) Fail(err error) {
	if err == nil {
		err = fmt.Errorf("failed")
	}
	p.stop(err)
}

// stop рисует итоговую строку один раз.
func (p *progressBar) stop(err error) {
	if p == nil || !p.closed.CompareAndSwap(false, true) {
		return
	}

	tail := " done"
	if err != nil {
		tail = " error: " + err.Error()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.drawLocked(p.status(time.Now())+tail, "\n")
}

// progressWriter считает байты, проходящие через io.TeeReader.
type progressWriter struct {
	bar *progressBar
}

func (w progressWriter) Write(b []byte) (int, error) {
	w.bar.AddBytes(int64(len(b)))
	return len(b), nil
}

// progressReadCloser считает прочитанные байты и закрывает бар на EOF, ошибке или Close.
type progressReadCloser struct {
	io.ReadCloser
	bar *progressBar
}

func newProgressReadCloser(rc io.ReadCloser, bar *progressBar) io.ReadCloser {
	if bar == nil || rc == nil {
		return rc
	}
	return &progressReadCloser{ReadCloser: rc, bar: bar}
}

func (r *progressReadCloser) Read(b []byte) (int, error) {
	n, err := r.ReadCloser.Read(b)
	r.bar.AddBytes(int64(n))
	switch {
	case err == io.EOF:
		r.bar.Finish()
	case err != nil:
		r.bar.Fail(err)
	}
	return n, err
}

func (r *progressReadCloser) Close() error {
	err := r.ReadCloser.Close()
	if err != nil {
		r.bar.Fail(err)
	} else {
		r.bar.Finish()
	}
	return err
}

// humanBytes форматирует размер в двоичных единицах: 1536 → "1.5 KB".
func humanBytes(v int64) string {
	const unit = 1024
	if v < unit {
		return fmt.Sprintf("%d B", v)
	}

	div, exp := int64(unit), 0
	for n := v / unit; n >= unit && exp < 4; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(v)/float64(div), "KMGTP"[exp])
}
