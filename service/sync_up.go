package service

import (
	"context"
	"net/http"
	"sync"

	"myregistry/domain"
	"myregistry/interfaces"

	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"
)

// maxSyncFetches caps concurrent snapshot downloads during SyncUp.
const maxSyncFetches = 4

// SyncUp loads the stored records of every peer (GET apps/ sent as replication traffic, answered with
// GetStoredApplications) and registers each instance as replication traffic. Peers that fail are logged
// and skipped.
//
// Parameters: ctx: bounds every fetch; peers: wire clients keyed by peer URL (PeerNodeSet.Clients).
//
// Returns: the number of distinct instances registered, which callers pass to OpenForTraffic.
//
// Called from cmd/main at startup, before OpenForTraffic.
func (r *Registry) SyncUp(ctx context.Context, peers map[string]interfaces.PeerClient) int {
	var (
		mu        sync.Mutex
		snapshots []domain.Applications
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxSyncFetches)
	for url, client := range peers {
		g.Go(func() error {
			status, apps, err := client.GetApplications(gctx)
			if err == nil && (status != http.StatusOK || apps == nil) {
				err = NewInternalServerError("unexpected snapshot response", nil)
			}
			if err != nil {
				level.Warn(r.logger).Log("msg", "sync from peer failed", "peer", url, "status", status, "err", err)
				return nil
			}
			mu.Lock()
			snapshots = append(snapshots, *apps)
			mu.Unlock()
			level.Info(r.logger).Log("msg", "fetched peer snapshot", "peer", url, "instances", apps.Size())
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[domain.InstanceKey]bool)
	for _, apps := range snapshots {
		for _, app := range apps.Applications {
			for _, inst := range app.Instances {
				if inst.AppName == "" {
					inst.AppName = app.Name
				}
				r.Register(inst, inst.LeaseInfo.DurationInSecs, true)
				if inst.HasOverride() {
					r.StoreOverriddenStatus(inst.AppName, inst.InstanceID, inst.OverriddenStatus)
				}
				seen[inst.Key()] = true
			}
		}
	}
	level.Info(r.logger).Log("msg", "sync up finished", "peers", len(peers), "answered", len(snapshots), "instances", len(seen))
	return len(seen)
}
