// SPDX-License-Identifier: EPL-2.0

package oggproc_test

import (
	"errors"
	"fmt"

	"github.com/ik5/oggproc"
)

func ExampleNewFromBytes_malformed() {
	p, err := oggproc.NewFromBytes([]byte("this is not an ogg vorbis container"))

	fmt.Println(p == nil)
	fmt.Println(errors.Is(err, oggproc.ErrMalformed))

	var de *oggproc.DecodeError
	fmt.Println(errors.As(err, &de))
	// Output:
	// true
	// true
	// true
}

func ExampleLogicalStream() {
	s := oggproc.NewLogicalStream(1, 2, 4)
	s.AddChunk([]int16{-32768, 32767, 16384, 0})
	s.AddChunk([]int16{})

	fmt.Println(s.ChunkCount(), s.Duration())
	fmt.Println(s.Chunk(0))
	// Output:
	// 1 0.5
	// [-0.5 0.49998474 0.25 0]
}

func ExampleNormalize() {
	fmt.Println(oggproc.Normalize(-32768), oggproc.Normalize(0))
	// Output: -0.5 0
}
