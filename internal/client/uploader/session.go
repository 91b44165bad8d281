package uploader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/csomedia/internal/common"
	"github.com/dmitrijs2005/csomedia/internal/logging"
	"github.com/dmitrijs2005/csomedia/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Status is the lifecycle state of a single file.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Terminal reports whether s is completed or error.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// FileProgress is the tracked state of one file.
type FileProgress struct {
	ID       string
	File     storage.File
	Progress int
	Status   Status
	Error    string
	Result   *storage.UploadedFile
}

// Uploader stores a single file. *storage.Client and the gRPC media client
// implement it.
type Uploader interface {
	Upload(ctx context.Context, file storage.File, bucket storage.Bucket, opts storage.UploadOptions) (*storage.UploadedFile, error)
}

// Options configure a Session. The zero value uploads sequentially with no
// file limit, timeout or rate limit.
type Options struct {
	Upload storage.UploadOptions

	// MaxFiles caps the cumulative number of entries; 0 means unlimited.
	MaxFiles int
	// Concurrency is the number of files of a batch uploaded at once.
	Concurrency int
	// FileTimeout bounds each Uploader call; 0 means no timeout.
	FileTimeout time.Duration
	// RateLimit throttles Uploader calls; 0 means unlimited.
	RateLimit rate.Limit
	Burst     int

	OnComplete func([]storage.UploadedFile)
	OnProgress func(FileProgress)

	Logger logging.Logger
}

// Session tracks uploads into a single bucket.
type Session struct {
	bucket   storage.Bucket
	uploader Uploader
	opts     Options
	limiter  *rate.Limiter
	logger   logging.Logger

	mu      sync.Mutex
	files   []FileProgress
	pending int

	// Batches take a ticket at admission and run when serving reaches it,
	// one at a time in admission order. turn is signalled on mu.
	nextTicket uint64
	serving    uint64
	turn       *sync.Cond
}

// New returns an empty Session.
func New(bucket storage.Bucket, up Uploader, opts Options) *Session {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	s := &Session{
		bucket:   bucket,
		uploader: up,
		opts:     opts,
		logger:   opts.Logger.With("bucket", bucket.String()),
	}
	s.turn = sync.NewCond(&s.mu)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(opts.RateLimit, burst)
	}
	return s
}

// Files returns a snapshot of the tracked entries in admission order.
func (s *Session) Files() []FileProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FileProgress, len(s.files))
	copy(out, s.files)
	return out
}

// IsUploading reports whether any admitted batch has not finished.
func (s *Session) IsUploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

// HasErrors reports whether any tracked entry failed.
func (s *Session) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if f.Status == StatusError {
			return true
		}
	}
	return false
}

// RemoveFile drops the entry at index. Out of range indexes are ignored.
func (s *Session) RemoveFile(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.files) {
		return
	}
	s.files = append(s.files[:index], s.files[index+1:]...)
}

// ClearFiles drops every entry.
func (s *Session) ClearFiles() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
}

// UploadFiles admits files and uploads them, returning the successful
// results in batch order. The only error returned is a capacity error, in
// which case nothing was admitted; per-file failures are recorded on the
// entries. OnComplete is called with the same results before returning.
func (s *Session) UploadFiles(ctx context.Context, files []storage.File) ([]storage.UploadedFile, error) {
	ids, ticket, err := s.admit(files)
	if err != nil {
		s.logger.Warn(ctx, "batch rejected", "files", len(files), "error", err)
		return nil, err
	}
	defer s.finish()

	s.waitTurn(ticket)

	results := make([]*storage.UploadedFile, len(files))

	g := new(errgroup.Group)
	g.SetLimit(s.opts.Concurrency)
	for i := range files {
		g.Go(func() error {
			results[i] = s.process(ctx, ids[i], files[i])
			return nil
		})
	}
	_ = g.Wait()

	done := make([]storage.UploadedFile, 0, len(files))
	for _, r := range results {
		if r != nil {
			done = append(done, *r)
		}
	}

	s.logger.Info(ctx, "batch finished", "files", len(files), "uploaded", len(done))
	if s.opts.OnComplete != nil {
		s.opts.OnComplete(done)
	}
	return done, nil
}

func (s *Session) admit(files []storage.File) ([]string, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.MaxFiles > 0 && len(s.files)+len(files) > s.opts.MaxFiles {
		return nil, 0, common.NewCapacityError(fmt.Sprintf("Maximum %d files allowed", s.opts.MaxFiles))
	}

	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = uuid.NewString()
		s.files = append(s.files, FileProgress{ID: ids[i], File: f, Status: StatusPending})
	}
	s.pending++
	ticket := s.nextTicket
	s.nextTicket++
	return ids, ticket, nil
}

// waitTurn blocks until every batch admitted before ticket has finished.
func (s *Session) waitTurn(ticket uint64) {
	s.mu.Lock()
	for s.serving != ticket {
		s.turn.Wait()
	}
	s.mu.Unlock()
}

// finish ends the running batch and hands over to the next ticket.
func (s *Session) finish() {
	s.mu.Lock()
	s.pending--
	s.serving++
	s.turn.Broadcast()
	s.mu.Unlock()
}

func (s *Session) process(ctx context.Context, id string, file storage.File) *storage.UploadedFile {
	s.update(id, func(fp *FileProgress) { fp.Status = StatusUploading })

	result, err := s.upload(ctx, id, file)
	if err != nil {
		s.logger.Debug(ctx, "file failed", "file", file.Name, "error", err)
		s.update(id, func(fp *FileProgress) {
			fp.Status = StatusError
			fp.Error = errorMessage(err)
		})
		return nil
	}

	s.update(id, func(fp *FileProgress) {
		fp.Status = StatusCompleted
		fp.Progress = 100
		fp.Result = result
	})
	return result
}

func (s *Session) upload(ctx context.Context, id string, file storage.File) (*storage.UploadedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if s.opts.FileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.FileTimeout)
		defer cancel()
	}

	if file.Content != nil && file.Size > 0 {
		file.Content = &progressReader{r: file.Content, total: file.Size, report: func(p int) {
			s.update(id, func(fp *FileProgress) { fp.Progress = p })
		}}
	}

	return s.uploader.Upload(ctx, file, s.bucket, s.opts.Upload)
}

// update applies fn to the entry with id unless it was removed or already
// reached a terminal state.
func (s *Session) update(id string, fn func(*FileProgress)) {
	s.mu.Lock()
	var (
		snapshot FileProgress
		found    bool
	)
	for i := range s.files {
		if s.files[i].ID != id {
			continue
		}
		if s.files[i].Status.Terminal() {
			break
		}
		fn(&s.files[i])
		snapshot, found = s.files[i], true
		break
	}
	s.mu.Unlock()

	if found && s.opts.OnProgress != nil {
		s.opts.OnProgress(snapshot)
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Upload timed out"
	case errors.Is(err, context.Canceled):
		return "Upload cancelled"
	default:
		return err.Error()
	}
}
