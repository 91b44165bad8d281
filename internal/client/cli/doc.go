// Package cli implements the csomedia command-line client.
//
// The binary takes global flags (see package config) followed by a
// sub-command:
//
//	buckets                                   list buckets and their rules
//	upload  -bucket B [-org O] [-path P] [-upsert] [-cache-control C] FILE...
//	put     -bucket B [-org O] [-path P] [-ttl D] FILE
//	list    -bucket B [-folder F] [-limit N]
//	url     -bucket B PATH
//	sign    -bucket B [-ttl D] PATH
//	download -bucket B [-o FILE] PATH
//	delete  -bucket B [-y] PATH...
//	history [-bucket B] [-limit N] [-remote] [-clear]
//
// "upload" drives an uploader.Session over the gRPC client, so files are
// validated locally, capped by -n, sent -j at a time and reported with live
// progress; completed uploads are recorded in the local history database.
// "put" uploads through a presigned URL instead of the RPC channel.
package cli
