package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/csomedia/internal/storage"
)

// commander is the command surface runCommand dispatches to. App satisfies
// it; tests provide a stub.
type commander interface {
	Buckets(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Put(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	URL(ctx context.Context, args []string) error
	Sign(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
}

const usage = `Usage: csomedia [global flags] <command> [flags] [args]

Commands:
  buckets     list buckets and their upload rules
  upload      upload files through the media service
  put         upload one file through a presigned URL
  list        list objects in a bucket folder
  url         print the public URL of an object
  sign        print a time-limited download URL
  download    fetch an object
  delete      delete objects
  history     show uploads made from this machine

Run "csomedia <command> -h" for command flags.`

// runCommand parses the first token of args as the command name and
// dispatches it.
func runCommand(ctx context.Context, a commander, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		fmt.Fprintln(out, usage)
		return nil
	case "buckets":
		return a.Buckets(ctx, rest)
	case "upload":
		return a.Upload(ctx, rest)
	case "put":
		return a.Put(ctx, rest)
	case "l", "list":
		return a.List(ctx, rest)
	case "url":
		return a.URL(ctx, rest)
	case "sign":
		return a.Sign(ctx, rest)
	case "download":
		return a.Download(ctx, rest)
	case "rm", "delete":
		return a.Delete(ctx, rest)
	case "history":
		return a.History(ctx, rest)
	default:
		fmt.Fprintln(out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// parse parses args into fs, turning flag errors into ErrUsage.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s", ErrUsage, err)
	}
	return nil
}

// requireBucket resolves a -bucket value; name may use either dashes or
// underscores.
func requireBucket(name string) (storage.Bucket, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: -bucket is required", ErrUsage)
	}
	b, err := storage.ParseBucket(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUsage, err)
	}
	return b, nil
}

// optionalBucket is requireBucket with "" meaning every bucket.
func optionalBucket(name string) (storage.Bucket, error) {
	if name == "" {
		return 0, nil
	}
	return requireBucket(name)
}

// requireArgs checks the number of positional arguments.
func requireArgs(fs *flag.FlagSet, lo, hi int, what string) error {
	n := fs.NArg()
	if n < lo || (hi > 0 && n > hi) {
		return fmt.Errorf("%w: %s %s", ErrUsage, fs.Name(), what)
	}
	return nil
}
