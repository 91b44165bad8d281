package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/csomedia/internal/cryptox"
	"github.com/dmitrijs2005/csomedia/internal/filex"
	"github.com/dmitrijs2005/csomedia/internal/netx"
	"github.com/dmitrijs2005/csomedia/internal/storage"
	"github.com/google/uuid"
)

// uploadToURL is a test seam for netx.UploadToPresignedURL.
var uploadToURL = netx.UploadToPresignedURL

// Put uploads a single file directly to object storage through a presigned
// PUT URL issued by the server.
func (a *App) Put(ctx context.Context, args []string) error {
	fs := a.newFlagSet("put")
	bucketName := fs.String("bucket", "", "target bucket")
	org := fs.String("org", "", "organisation id")
	customPath := fs.String("path", "", "object path")
	ttl := fs.Duration("ttl", 0, "URL validity (server default when 0)")
	if err := parse(fs, args); err != nil {
		return err
	}

	bucket, err := requireBucket(*bucketName)
	if err != nil {
		return err
	}
	if err := requireArgs(fs, 1, 1, "needs exactly one file"); err != nil {
		return err
	}

	file, osFile, err := filex.OpenFile(fs.Arg(0))
	if err != nil {
		return err
	}
	defer osFile.Close()

	if err := storage.ValidateFile(file, bucket).Err(); err != nil {
		return err
	}

	data, err := io.ReadAll(file.Content)
	if err != nil {
		return err
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	path, url, err := a.client.CreateUploadURL(rctx, bucket, file.Name, *org, *customPath, *ttl)
	if err != nil {
		return err
	}

	uctx := ctx
	if a.config.FileTimeout > 0 {
		var ucancel context.CancelFunc
		uctx, ucancel = context.WithTimeout(ctx, a.config.FileTimeout)
		defer ucancel()
	}
	if err := uploadToURL(uctx, url, file.ContentType, data); err != nil {
		return err
	}

	res := storage.UploadedFile{
		ID:         uuid.NewString(),
		Path:       path,
		Bucket:     bucket,
		FileName:   file.Name,
		FileSize:   int64(len(data)),
		MimeType:   file.ContentType,
		Checksum:   cryptox.Digest(data),
		UploadedAt: time.Now().UTC(),
	}
	if bucket.IsPublic() {
		pctx, pcancel := a.requestContext(ctx)
		defer pcancel()
		if res.PublicURL, err = a.client.GetPublicURL(pctx, bucket, path); err != nil {
			a.logger.Warn(ctx, "public url lookup failed", "path", path, "error", err)
		}
	}

	if err := a.history.Add(ctx, res); err != nil {
		a.logger.Warn(ctx, "history write failed", "path", path, "error", err)
	}

	fmt.Fprintln(a.out, path)
	if res.PublicURL != "" {
		fmt.Fprintln(a.out, res.PublicURL)
	}
	return nil
}
