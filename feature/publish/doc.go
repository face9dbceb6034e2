// Package publish mirrors generated DAT files to an S3 compatible bucket.
//
// A Publisher is registered as an extra processing sink on the event
// bridge. Uploads run off the bridge goroutine and never feed back into the
// ledgers; a failed upload is logged and otherwise ignored.
package publish
