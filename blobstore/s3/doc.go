// Package s3 implements blobstore.Store on Amazon S3.
//
// Reads use ranged GetObject requests so partial snapshot reads do not
// download whole objects. Streaming writes go through the AWS upload
// manager, which switches to multipart uploads for large snapshots.
package s3
