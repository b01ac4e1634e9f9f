package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// watchDocument streams snapshots of ref to fn until ctx is done. A missing
// document is reported as NotFound.
func watchDocument(ctx context.Context, ref *firestore.DocumentRef, resource string, fn func(*firestore.DocumentSnapshot) error) error {
	iter := ref.Snapshots(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			return storeError(err, resource, "watch "+resource)
		}
		if !doc.Exists() {
			return storeError(status.Error(codes.NotFound, resource+" deleted"), resource, "watch")
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
}
