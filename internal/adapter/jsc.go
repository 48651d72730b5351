package adapter

import "github.com/gowebpki/jcs"

// JCS canonicalizes webhook bodies so deliveries differing only in key order or spacing hash the same
//
//go:generate mockgen -source=jsc.go -destination=../mocks/jsc.go -package=mocks -mock_names=JCS=MockJCS
type JCS interface {
	// Transform returns the RFC 8785 form of a JSON document
	Transform(data []byte) ([]byte, error)
}

// RealJCS implements JCS using the gowebpki/jcs package
type RealJCS struct{}

// NewJCS creates a new real JCS implementation
func NewJCS() JCS {
	return &RealJCS{}
}

func (j *RealJCS) Transform(data []byte) ([]byte, error) {
	return jcs.Transform(data)
}
