// Package device flattens a nested device-description tree into the list of
// peripheral devices worth reporting.
//
// The tree is walked depth-first in pre-order. A node is reported when its
// class belongs to a fixed allow-set; every node is descended into whether it
// matched or not, so matching descendants of a non-matching parent still
// appear, in traversal order.
package device

import "strings"

const (
	ClassMultimedia    = "multimedia"
	ClassCommunication = "communication"
	ClassPrinter       = "printer"
	ClassInput         = "input"
	ClassDisplay       = "display"

	// ClassGeneric is assumed for nodes without a class. It never matches.
	ClassGeneric = "generic"
)

// reportedClasses is the allow-set. Never mutated after init.
var reportedClasses = map[string]struct{}{
	ClassMultimedia:    {},
	ClassCommunication: {},
	ClassPrinter:       {},
	ClassInput:         {},
	ClassDisplay:       {},
}

// Node describes one element of the device tree. Empty strings are absent.
type Node struct {
	Class       string
	Vendor      string
	Product     string
	Description string
	ID          string
	Children    []*Node
}

// Device is a reported peripheral.
type Device struct {
	Name  string `json:"name" yaml:"name"`
	Class string `json:"class" yaml:"class"`
}

// Classes returns the reported classes in a stable order.
func Classes() []string {
	return []string{ClassMultimedia, ClassCommunication, ClassPrinter, ClassInput, ClassDisplay}
}

// IsReported reports whether class belongs to the allow-set.
func IsReported(class string) bool {
	if class == "" {
		class = ClassGeneric
	}
	_, ok := reportedClasses[class]
	return ok
}

// Classify walks root in pre-order and returns the matching devices.
// A nil root yields an empty, non-nil slice.
func Classify(root *Node) []Device {
	out := make([]Device, 0)
	walk(root, func(n *Node) {
		if IsReported(n.Class) {
			out = append(out, Device{Name: DisplayName(n), Class: n.Class})
		}
	})
	return out
}

// DisplayName joins vendor, product, "| "+description and id, skipping
// absent fields, with single spaces and no trailing separator.
func DisplayName(n *Node) string {
	parts := make([]string, 0, 4)
	if n.Vendor != "" {
		parts = append(parts, n.Vendor)
	}
	if n.Product != "" {
		parts = append(parts, n.Product)
	}
	if n.Description != "" {
		parts = append(parts, "| "+n.Description)
	}
	if n.ID != "" {
		parts = append(parts, n.ID)
	}
	return strings.Join(parts, " ")
}

// walk visits n and then each child subtree in order.
func walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		walk(c, visit)
	}
}
