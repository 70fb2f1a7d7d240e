// Package repository holds the Firestore plumbing shared by the domain repositories.
package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Decode destructures a document into out and returns the document's ID. out must be a pointer
// to a struct with mapstructure tags.
func Decode(doc *firestore.DocumentSnapshot, out interface{}) error {
	if err := mapstructure.Decode(doc.Data(), out); err != nil {
		return fmt.Errorf("error destructuring document %v: %w", doc.Ref.ID, err)
	}
	return nil
}

// Each calls fn for every document produced by iter.
func Each(iter *firestore.DocumentIterator, fn func(doc *firestore.DocumentSnapshot) error) error {
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
}

// IsNotFound reports whether err is Firestore's missing-document error.
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// IsAlreadyExists reports whether err is Firestore's document-exists error from Create.
func IsAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

// Refs turns a list of document IDs into references, skipping blanks and duplicates.
func Refs(col *firestore.CollectionRef, ids []string) []*firestore.DocumentRef {
	seen := make(map[string]bool, len(ids))
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		refs = append(refs, col.Doc(id))
	}
	return refs
}

// Ping checks that the store answers a trivial read.
func Ping(ctx context.Context, client *firestore.Client, collection string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	iter := client.Collection(collection).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return fmt.Errorf("firestore ping: %w", err)
	}
	return nil
}
