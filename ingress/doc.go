// Package ingress exposes a running network over Connect RPC.
//
// The service has no generated stubs. Deliver takes a google.protobuf.Any
// payload and reads the action tag from the binary Bucket-Action-Bin header
// (base64, as connect.EncodeBinaryHeader writes it); it answers with the
// payload of the envelope the target component emits in response and echoes
// that envelope's action in the same header. Recycle takes and
// returns google.protobuf.Empty.
//
//	POST /bucket.v1.BucketService/Deliver
//	POST /bucket.v1.BucketAdmin/Recycle
//
// Responses are matched to requests by envelope ID: a reply carries the
// request ID in ReplyTo, a forwarded envelope keeps its own ID.
package ingress
