package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/csomedia/internal/client/uploader"
)

const barWidth = 20

// progressPrinter renders upload progress. On a terminal each file's line
// is redrawn in place; otherwise only status changes are printed.
type progressPrinter struct {
	mu          sync.Mutex
	w           io.Writer
	interactive bool
	last        map[string]uploader.Status
}

func newProgressPrinter(w io.Writer, interactive bool) *progressPrinter {
	return &progressPrinter{w: w, interactive: interactive, last: make(map[string]uploader.Status)}
}

// Update is an uploader.Options.OnProgress callback.
func (p *progressPrinter) Update(fp uploader.FileProgress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev, seen := p.last[fp.ID]
	p.last[fp.ID] = fp.Status

	if p.interactive {
		end := ""
		if fp.Status.Terminal() {
			end = "\n"
		}
		fmt.Fprintf(p.w, "\r\033[K%s%s", formatProgress(fp), end)
		return
	}

	if !seen || prev != fp.Status {
		fmt.Fprintln(p.w, formatProgress(fp))
	}
}

func formatProgress(fp uploader.FileProgress) string {
	switch fp.Status {
	case uploader.StatusCompleted:
		path := ""
		if fp.Result != nil {
			path = fp.Result.Path
		}
		return fmt.Sprintf("%-32s [%s] done %s", fp.File.Name, bar(100), path)
	case uploader.StatusError:
		return fmt.Sprintf("%-32s [%s] failed: %s", fp.File.Name, bar(fp.Progress), fp.Error)
	default:
		return fmt.Sprintf("%-32s [%s] %3d%% %s", fp.File.Name, bar(fp.Progress), fp.Progress, fp.Status)
	}
}

func bar(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * barWidth / 100
	return strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
}
