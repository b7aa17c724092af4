// Package stats turns player events into playback health reports.
//
// A [Monitor] subscribes to a [player.Player] and accumulates transfer
// volume, watch time, stalls, dropped frames and rendition switches. Reports
// carry a [HealthLevel] assessed against [Thresholds].
//
// # Periodic Reports
//
//	m := stats.NewMonitor(nil)
//	if err := m.Attach(p); err != nil {
//	    return err
//	}
//	m.OnReport(func(r stats.Report) {
//	    log.Println(r.String())
//	})
//	if err := m.Start(5 * time.Second); err != nil {
//	    return err
//	}
//	defer m.Stop()
//
// Attach and Record run on the player's tick thread. Snapshot, History and
// the report goroutine may run anywhere.
package stats
