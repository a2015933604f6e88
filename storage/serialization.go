// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	muss "github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/campusrag/core"
)

// MUS serializers for the fields of a chunk. The vector uses the raw
// fixed-width float32 encoding; everything else uses the ord/varint
// defaults.
var (
	float32M = muss.MarshallerFn[float32](raw.MarshalFloat32)
	float32U = muss.UnmarshallerFn[float32](raw.UnmarshalFloat32)
	float32S = muss.SizerFn[float32](raw.SizeFloat32)

	stringM = muss.MarshallerFn[string](func(v string, bs []byte) int {
		return ord.MarshalString(v, nil, bs)
	})
	stringU = muss.UnmarshallerFn[string](func(bs []byte) (string, int, error) {
		return ord.UnmarshalString(nil, bs)
	})
	stringS = muss.SizerFn[string](func(v string) int {
		return ord.SizeString(v, nil)
	})
)

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	bs := make([]byte, SizeChunk(chunk))
	n := ord.MarshalString(chunk.ID, nil, bs)
	n += ord.MarshalString(chunk.Content, nil, bs[n:])
	n += ord.MarshalString(chunk.Section, nil, bs[n:])
	n += varint.MarshalInt(chunk.Seq, bs[n:])
	n += ord.MarshalSlice(chunk.Vector, nil, float32M, bs[n:])
	ord.MarshalMap(chunk.Metadata, nil, stringM, stringM, bs[n:])
	return bs
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk := &core.Chunk{}
	var (
		n   int
		err error
	)

	chunk.ID, n, err = ord.UnmarshalString(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	data = data[n:]

	chunk.Content, n, err = ord.UnmarshalString(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: content: %w", ErrSerializationFailed, err)
	}
	data = data[n:]

	chunk.Section, n, err = ord.UnmarshalString(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: section: %w", ErrSerializationFailed, err)
	}
	data = data[n:]

	chunk.Seq, n, err = varint.UnmarshalInt(data)
	if err != nil {
		return nil, fmt.Errorf("%w: seq: %w", ErrSerializationFailed, err)
	}
	data = data[n:]

	chunk.Vector, n, err = ord.UnmarshalSlice(nil, float32U, data)
	if err != nil {
		return nil, fmt.Errorf("%w: vector: %w", ErrSerializationFailed, err)
	}
	data = data[n:]

	chunk.Metadata, _, err = ord.UnmarshalMap(nil, stringU, stringU, data)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata: %w", ErrSerializationFailed, err)
	}

	return chunk, nil
}

// SizeChunk returns the serialized size of a Chunk in bytes.
func SizeChunk(chunk *core.Chunk) int {
	size := ord.SizeString(chunk.ID, nil)
	size += ord.SizeString(chunk.Content, nil)
	size += ord.SizeString(chunk.Section, nil)
	size += varint.SizeInt(chunk.Seq)
	size += ord.SizeSlice(chunk.Vector, nil, float32S)
	size += ord.SizeMap(chunk.Metadata, nil, stringS, stringS)
	return size
}
