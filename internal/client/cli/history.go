package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/csomedia/internal/storage"
)

// History lists uploads from the local history, or from the server ledger
// with -remote.
func (a *App) History(ctx context.Context, args []string) error {
	fs := a.newFlagSet("history")
	bucketName := fs.String("bucket", "", "only this bucket")
	limit := fs.Int("limit", 20, "maximum entries")
	remote := fs.Bool("remote", false, "ask the server instead of the local history")
	clearAll := fs.Bool("clear", false, "forget the local history")
	if err := parse(fs, args); err != nil {
		return err
	}
	bucket, err := optionalBucket(*bucketName)
	if err != nil {
		return err
	}

	if *clearAll {
		if err := a.history.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "History cleared")
		return nil
	}

	var uploads []storage.UploadedFile
	if *remote {
		rctx, cancel := a.requestContext(ctx)
		defer cancel()
		uploads, err = a.client.ListUploads(rctx, bucket, *limit)
	} else {
		uploads, err = a.history.List(ctx, bucket, *limit)
	}
	if err != nil {
		return err
	}

	if len(uploads) == 0 {
		fmt.Fprintln(a.out, "No uploads")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UPLOADED\tBUCKET\tPATH\tSIZE\tURL")
	for _, u := range uploads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			u.UploadedAt.Local().Format(time.DateTime), u.Bucket.ID(), u.Path, humanSize(u.FileSize), u.PublicURL)
	}
	return tw.Flush()
}
