// Package uploader drives batches of file uploads and tracks the progress
// of every file offered to it.
//
// # Overview
//
// A Session owns an ordered list of FileProgress entries. UploadFiles admits
// a batch (all or nothing with respect to Options.MaxFiles), then hands each
// file to an Uploader. Every entry moves pending -> uploading -> completed
// or error, and terminal entries are only ever removed, never changed.
//
// # Concurrency
//
// Admission is atomic. Batches run one at a time in admission order; inside
// a batch files are processed by a bounded worker group, sequentially by
// default. Cancelling the context passed to UploadFiles fails every file of
// that batch that has not completed yet.
//
// RemoveFile and ClearFiles only edit the list. They never delete uploaded
// objects and may be called while a batch is running; the running uploads
// then finish without a visible entry.
package uploader
