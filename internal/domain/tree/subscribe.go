package tree

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
)

// CancelFunc stops a live subscription. Safe to call more than once.
type CancelFunc func()

// SubscribeTrees delivers the full trees collection to fn on every change,
// push-style. Consumers must be idempotent: snapshots may repeat and arrive
// in any order relative to other subscriptions.
func (r *Repo) SubscribeTrees(ctx context.Context, fn func([]Tree)) CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		it := r.fs.Collection("trees").Snapshots(ctx)
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("tree subscription stopped: %v", err)
				}
				return
			}
			trees, err := collectTrees(snap.Documents)
			if err != nil {
				log.Printf("tree snapshot decode failed: %v", err)
				continue
			}
			fn(trees)
		}
	}()
	return CancelFunc(cancel)
}

// SubscribeCareEvents delivers the care-event subcollection of one tree,
// newest first, on every change.
func (r *Repo) SubscribeCareEvents(ctx context.Context, treeID string, fn func([]CareEvent)) CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		it := r.fs.Collection("trees").Doc(treeID).Collection("careEvents").
			OrderBy("timestamp", firestore.Desc).
			Snapshots(ctx)
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("care event subscription stopped for %s: %v", treeID, err)
				}
				return
			}
			events, err := collectCareEvents(snap.Documents)
			if err != nil {
				log.Printf("care event snapshot decode failed: %v", err)
				continue
			}
			fn(events)
		}
	}()
	return CancelFunc(cancel)
}
