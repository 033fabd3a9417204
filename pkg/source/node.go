// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package source

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/NVIDIA/hostprobe/pkg/errors"
)

// Node is one element of a hierarchical raw document.
type Node struct {
	// Tag is the value of the TreeSpec tag field, empty when absent.
	Tag string
	// Fields holds the primitive and nested non-child values of the node.
	// JSON null values are kept as nil.
	Fields map[string]any
	// Children are the nodes found under the TreeSpec child keys, in order.
	Children []*Node
}

// NewNode returns a node with the given tag and fields.
func NewNode(tag string, fields map[string]any, children ...*Node) *Node {
	if fields == nil {
		fields = make(map[string]any)
	}
	return &Node{Tag: tag, Fields: fields, Children: children}
}

// Text returns the field as a string. Numbers are rendered in their textual
// form. It reports false when the field is absent, null or not a scalar.
func (n *Node) Text(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	switch v := n.Fields[key].(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Uint returns the field as an unsigned integer. Strings holding a decimal
// number are accepted since some tools quote their numbers. It reports
// false when the field is absent or null, and returns a FieldParse error
// when it is present but not convertible.
func (n *Node) Uint(key string) (uint64, bool, error) {
	if n == nil {
		return 0, false, nil
	}
	raw, ok := n.Fields[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	v, err := ToUint(raw)
	if err != nil {
		return 0, true, errors.WrapWithContext(errors.ErrCodeFieldParse,
			"field is not an unsigned integer", err, map[string]any{"field": key})
	}
	return v, true, nil
}

// ToUint converts a primitive field value to uint64.
func ToUint(raw any) (uint64, error) {
	switch v := raw.(type) {
	case uint64:
		return v, nil
	case uint32:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case int:
		if v < 0 {
			return 0, strconv.ErrRange
		}
		return uint64(v), nil
	case int64:
		if v < 0 {
			return 0, strconv.ErrRange
		}
		return uint64(v), nil
	case float64:
		if v < 0 {
			return 0, strconv.ErrRange
		}
		return uint64(v), nil
	case json.Number:
		return strconv.ParseUint(v.String(), 10, 64)
	case string:
		return strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	default:
		return 0, strconv.ErrSyntax
	}
}

// TreeSpec tells DecodeTree how to read a JSON document as a Node tree.
type TreeSpec struct {
	// TagKey names the field copied into Node.Tag.
	TagKey string
	// ChildKeys name the array fields holding child objects. Children are
	// appended in ChildKeys order.
	ChildKeys []string
}

// Well known layouts of the tools used by the Linux adapter.
var (
	LsblkTree  = TreeSpec{TagKey: "type", ChildKeys: []string{"blockdevices", "children"}}
	LshwTree   = TreeSpec{TagKey: "class", ChildKeys: []string{"children"}}
	IPAddrTree = TreeSpec{TagKey: "ifname", ChildKeys: []string{"addr_info"}}
	LscpuTree  = TreeSpec{TagKey: "name", ChildKeys: []string{"caches"}}
)

// DecodeTree parses a JSON document into a Node tree. A top level array
// becomes the children of an untagged root.
func DecodeTree(data []byte, spec TreeSpec) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFieldParse, "failed to decode tree", err)
	}

	root := toNode(doc, spec)
	if root == nil {
		return nil, errors.New(errors.ErrCodeFieldParse, "tree document is neither an object nor an array")
	}
	return root, nil
}

func toNode(v any, spec TreeSpec) *Node {
	switch t := v.(type) {
	case []any:
		root := NewNode("", nil)
		root.Children = appendChildren(root.Children, t, spec)
		return root
	case map[string]any:
		n := NewNode("", nil)
		for k, val := range t {
			if !slices.Contains(spec.ChildKeys, k) {
				n.Fields[k] = val
			}
		}
		if tag, ok := t[spec.TagKey].(string); ok {
			n.Tag = tag
		}
		for _, key := range spec.ChildKeys {
			if items, ok := t[key].([]any); ok {
				n.Children = appendChildren(n.Children, items, spec)
			}
		}
		return n
	default:
		return nil
	}
}

func appendChildren(dst []*Node, items []any, spec TreeSpec) []*Node {
	for _, item := range items {
		if _, ok := item.(map[string]any); !ok {
			continue
		}
		dst = append(dst, toNode(item, spec))
	}
	return dst
}
