// Package network provides the runtime that schedules components of a
// dataflow network.
//
// A network owns the receive loop of every component it hosts. Components
// declare typed ports; the network connects outputs to inputs, receives
// envelopes on each input and calls Handle one envelope at a time per
// component, in delivery order.
//
// # Wiring
//
//	net, err := network.New(ctx, config.DefaultNetworkConfig())
//	b, err := bucket.New(config.DefaultBucketConfig())
//
//	err = net.Add(b)
//	err = net.Connect("parser", "tuples", "bucket", "operation")
//	results, err := net.Tap("bucket", "output")
//
//	err = net.Start()
//	defer net.Shutdown(5 * time.Second)
//
// Connect refuses ports whose contracts differ, so a component that produces
// generic_text cannot feed a port that consumes tuple.
//
// # Failed Cycles
//
// When Handle returns an error the cycle is logged, counted and reported to
// every FailureFunc registered with OnFailure. The component keeps receiving.
//
// # Recycling
//
// Recycle resets a component implementing component.Resetter. While the
// network runs, the reset executes on the component's own runner between two
// cycles, so component state is never touched concurrently.
package network
