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
	"encoding/binary"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/poiesic/costar/core"
)

// MarshalID serializes an ID to 8 big-endian bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("%w: id needs 8 bytes, got %d", ErrSerializationFailed, len(data))
	}
	return core.ID(binary.BigEndian.Uint64(data)), nil
}

// MarshalWork serializes a Work to bytes.
func MarshalWork(work *core.Work) ([]byte, error) {
	return marshal(work)
}

// UnmarshalWork deserializes a Work from bytes.
func UnmarshalWork(data []byte) (*core.Work, error) {
	var work core.Work
	if err := unmarshal(data, &work); err != nil {
		return nil, err
	}
	return &work, nil
}

// MarshalContributor serializes a Contributor, including its index, to bytes.
func MarshalContributor(contributor *core.Contributor) ([]byte, error) {
	return marshal(contributor)
}

// UnmarshalContributor deserializes a Contributor from bytes.
func UnmarshalContributor(data []byte) (*core.Contributor, error) {
	var contributor core.Contributor
	if err := unmarshal(data, &contributor); err != nil {
		return nil, err
	}
	return &contributor, nil
}

// MarshalEdge serializes an Edge to bytes.
func MarshalEdge(edge *core.Edge) ([]byte, error) {
	return marshal(edge)
}

// UnmarshalEdge deserializes an Edge from bytes.
func UnmarshalEdge(data []byte) (*core.Edge, error) {
	var edge core.Edge
	if err := unmarshal(data, &edge); err != nil {
		return nil, err
	}
	return &edge, nil
}

func marshal(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

func unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty value", ErrSerializationFailed)
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return nil
}
