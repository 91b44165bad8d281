package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/csomedia/internal/client/uploader"
	"github.com/dmitrijs2005/csomedia/internal/filex"
	"github.com/dmitrijs2005/csomedia/internal/storage"
)

// ErrUploadFailed is returned when at least one file of a batch failed.
var ErrUploadFailed = errors.New("some files failed to upload")

// Upload sends files through an upload session and records the successes
// in the local history.
func (a *App) Upload(ctx context.Context, args []string) error {
	fs := a.newFlagSet("upload")
	bucketName := fs.String("bucket", "", "target bucket")
	opts := storage.UploadOptions{}
	fs.StringVar(&opts.OrganisationID, "org", "", "organisation id")
	fs.StringVar(&opts.CustomPath, "path", "", "object path (single file only)")
	fs.BoolVar(&opts.Upsert, "upsert", false, "overwrite an existing object")
	fs.StringVar(&opts.CacheControl, "cache-control", "", "Cache-Control header of the object")
	if err := parse(fs, args); err != nil {
		return err
	}

	bucket, err := requireBucket(*bucketName)
	if err != nil {
		return err
	}
	if err := requireArgs(fs, 1, 0, "needs at least one file"); err != nil {
		return err
	}
	if opts.CustomPath != "" && fs.NArg() > 1 {
		return fmt.Errorf("%w: -path needs exactly one file", ErrUsage)
	}

	files := make([]storage.File, 0, fs.NArg())
	for _, p := range fs.Args() {
		f, osFile, err := filex.OpenFile(p)
		if err != nil {
			return err
		}
		defer osFile.Close()
		files = append(files, f)
	}

	concurrency := a.config.Concurrency
	printer := newProgressPrinter(a.out, concurrency <= 1 && isTerminal(int(os.Stdout.Fd())))

	session := uploader.New(bucket, a.client, uploader.Options{
		Upload:      opts,
		MaxFiles:    a.config.MaxFiles,
		Concurrency: concurrency,
		FileTimeout: a.config.FileTimeout,
		OnProgress:  printer.Update,
		OnComplete: func(done []storage.UploadedFile) {
			for _, f := range done {
				if err := a.history.Add(ctx, f); err != nil {
					a.logger.Warn(ctx, "history write failed", "path", f.Path, "error", err)
				}
			}
		},
		Logger: a.logger,
	})

	done, err := session.UploadFiles(ctx, files)
	if err != nil {
		return err
	}

	for _, f := range done {
		if f.PublicURL != "" {
			fmt.Fprintf(a.out, "%s -> %s\n", f.FileName, f.PublicURL)
		}
	}
	fmt.Fprintf(a.out, "%d of %d files uploaded\n", len(done), len(files))

	if session.HasErrors() {
		return ErrUploadFailed
	}
	return nil
}
