package pay

import (
	"github.com/lumenpay/go-lumenpay/gateway"
)

// Outcome is the tagged result of a mutating operation. Expected
// business failures (untrusted asset, unfunded destination, ...)
// come back as a Code, never as an error: callers branch on the
// tag. Transport failures stay ordinary errors, and an Outcome is
// only meaningful when the accompanying error is nil.
type Outcome struct {
	// Hash of the applied transaction; empty when the operation
	// succeeded without submitting anything.
	Hash string
	// Soft result code; set only on a classified failure.
	Code gateway.ResultCode
}

// OK reports whether the operation succeeded, either by applying
// a transaction or because nothing needed to be done.
func (o Outcome) OK() bool {
	return o.Code == ""
}

// Applied reports whether a transaction was actually submitted.
func (o Outcome) Applied() bool {
	return o.Hash != ""
}

func success(hash string) Outcome {
	return Outcome{Hash: hash}
}

func noop() Outcome {
	return Outcome{}
}

func soft(code gateway.ResultCode) Outcome {
	return Outcome{Code: code}
}
