// Package report records the outcome of a probe run and ships it elsewhere.
//
// A Report is filled step by step while the script runs and finished once the
// script ends. It can be serialized to MessagePack with Encode and Decode, and
// published to NATS JetStream with NATSPublisher.
//
// # Subjects
//
// Reports are published to "{SubjectPrefix}.{outcome}" where outcome is "ok"
// or "failed", so a consumer can subscribe to failures only:
//
//	nc, _ := nats.Connect("nats://localhost:4222")
//	js, _ := jetstream.New(nc)
//	publisher, _ := report.NewNATSPublisher(js)
//	defer publisher.Close()
//
//	err := publisher.Publish(ctx, rep)
package report
