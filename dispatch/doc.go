// Package dispatch provides the hand-off point between background work and
// the single tick thread that owns player and projector state.
//
// Fetches, texture decodes and native decoder callbacks run wherever they
// like and Post a closure. The host calls Drain once per frame, and every
// posted closure runs there in posting order:
//
//	q := dispatch.NewQueue()
//	go func() {
//	    data, err := fetch()
//	    q.Post(func() { handle(data, err) })
//	}()
//	...
//	q.Drain() // on the tick thread
package dispatch
