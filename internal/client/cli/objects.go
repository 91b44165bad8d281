package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// requestContext bounds a single RPC by the configured request timeout.
func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) Buckets(ctx context.Context, args []string) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	buckets, err := a.client.ListBuckets(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BUCKET\tPUBLIC\tMAX SIZE\tTYPES")
	for _, b := range buckets {
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", b.Bucket.ID(), b.Public, humanSize(b.MaxFileSize), strings.Join(b.AllowedFileTypes, ", "))
	}
	return tw.Flush()
}

func (a *App) List(ctx context.Context, args []string) error {
	fs := a.newFlagSet("list")
	bucketName := fs.String("bucket", "", "bucket")
	folder := fs.String("folder", "", "folder prefix")
	limit := fs.Int("limit", 100, "maximum objects")
	if err := parse(fs, args); err != nil {
		return err
	}
	bucket, err := requireBucket(*bucketName)
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	objects, err := a.client.List(ctx, bucket, *folder, *limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSIZE\tTYPE\tMODIFIED")
	for _, o := range objects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Key, humanSize(o.Size), o.ContentType, o.LastModified.Format(time.RFC3339))
	}
	return tw.Flush()
}

func (a *App) URL(ctx context.Context, args []string) error {
	fs := a.newFlagSet("url")
	bucketName := fs.String("bucket", "", "bucket")
	if err := parse(fs, args); err != nil {
		return err
	}
	bucket, err := requireBucket(*bucketName)
	if err != nil {
		return err
	}
	if err := requireArgs(fs, 1, 1, "needs exactly one path"); err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	u, err := a.client.GetPublicURL(ctx, bucket, fs.Arg(0))
	if err != nil {
		return err
	}
	if !bucket.IsPublic() {
		a.logger.Warn(ctx, "bucket is private, the URL will not be served without a signature", "bucket", bucket.ID())
	}
	fmt.Fprintln(a.out, u)
	return nil
}

func (a *App) Sign(ctx context.Context, args []string) error {
	fs := a.newFlagSet("sign")
	bucketName := fs.String("bucket", "", "bucket")
	ttl := fs.Duration("ttl", 0, "URL validity (server default when 0)")
	if err := parse(fs, args); err != nil {
		return err
	}
	bucket, err := requireBucket(*bucketName)
	if err != nil {
		return err
	}
	if err := requireArgs(fs, 1, 1, "needs exactly one path"); err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	u, err := a.client.CreateSignedURL(ctx, bucket, fs.Arg(0), *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, u)
	return nil
}

func (a *App) Download(ctx context.Context, args []string) error {
	fs := a.newFlagSet("download")
	bucketName := fs.String("bucket", "", "bucket")
	output := fs.String("o", "", "output file (stdout when empty)")
	if err := parse(fs, args); err != nil {
		return err
	}
	bucket, err := requireBucket(*bucketName)
	if err != nil {
		return err
	}
	if err := requireArgs(fs, 1, 1, "needs exactly one path"); err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	data, err := a.client.Download(ctx, bucket, fs.Arg(0))
	if err != nil {
		return err
	}

	if *output == "" {
		_, err = a.out.Write(data)
		return err
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(a.errOut, "%s written (%s)\n", *output, humanSize(int64(len(data))))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	fs := a.newFlagSet("delete")
	bucketName := fs.String("bucket", "", "bucket")
	yes := fs.Bool("y", false, "do not ask for confirmation")
	if err := parse(fs, args); err != nil {
		return err
	}
	bucket, err := requireBucket(*bucketName)
	if err != nil {
		return err
	}
	if err := requireArgs(fs, 1, 0, "needs at least one path"); err != nil {
		return err
	}
	paths := fs.Args()

	if !*yes && !Confirm(a.reader, fmt.Sprintf("Delete %d object(s) from %s?", len(paths), bucket.ID()), a.errOut) {
		fmt.Fprintln(a.out, "Aborted")
		return nil
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	if len(paths) == 1 {
		err = a.client.Delete(rctx, bucket, paths[0])
	} else {
		err = a.client.DeleteMultiple(rctx, bucket, paths)
	}
	if err != nil {
		return err
	}

	for _, p := range paths {
		if err := a.history.Remove(ctx, bucket, p); err != nil {
			a.logger.Warn(ctx, "history remove failed", "path", p, "error", err)
		}
	}
	fmt.Fprintf(a.out, "%d object(s) deleted\n", len(paths))
	return nil
}

// humanSize formats n bytes with a binary unit.
func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	v := float64(n) / float64(div)
	s := strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
	return s + string("KMGTPE"[exp]) + "B"
}
