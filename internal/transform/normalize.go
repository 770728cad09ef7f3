// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/csv2parquet/pkg/types"
)

// ErrLabelCollision is returned under the reject policy when two columns
// normalize to the same label.
var ErrLabelCollision = errors.New("column label collision")

// NormalizeLabel trims s, turns every interior whitespace run into a single
// underscore and lowercases the result. Characters other than whitespace,
// commas and dots included, are kept.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "_"))
}

// Column maps an output column to the source column it is taken from.
type Column struct {
	Source int
	Name   string
}

// Rename normalizes labels and resolves collisions with policy. The label
// ProcessingDateColumn is reserved, so a source column normalizing to it
// collides as well. The result is in output order.
func Rename(labels []string, policy types.CollisionPolicy) ([]Column, error) {
	norm := make([]string, len(labels))
	for i, l := range labels {
		norm[i] = NormalizeLabel(l)
	}

	switch policy {
	case types.CollisionReject:
		return renameReject(labels, norm)
	case types.CollisionSuffix, "":
		return renameSuffix(norm), nil
	case types.CollisionOverwrite:
		return renameOverwrite(norm), nil
	default:
		return nil, fmt.Errorf("unknown collision policy %q", policy)
	}
}

func renameReject(labels, norm []string) ([]Column, error) {
	owner := make(map[string]int, len(norm))
	cols := make([]Column, len(norm))
	for i, n := range norm {
		if n == ProcessingDateColumn {
			return nil, fmt.Errorf("%w: %q normalizes to reserved label %q", ErrLabelCollision, labels[i], n)
		}
		if j, ok := owner[n]; ok {
			return nil, fmt.Errorf("%w: %q and %q both normalize to %q", ErrLabelCollision, labels[j], labels[i], n)
		}
		owner[n] = i
		cols[i] = Column{Source: i, Name: n}
	}
	return cols, nil
}

// renameSuffix gives each normalized label to its first column and numbers
// the rest, skipping any name another column already owns.
func renameSuffix(norm []string) []Column {
	taken := map[string]bool{ProcessingDateColumn: true}
	first := make(map[string]int, len(norm))
	for i, n := range norm {
		taken[n] = true
		if _, ok := first[n]; !ok {
			first[n] = i
		}
	}

	cols := make([]Column, len(norm))
	for i, n := range norm {
		name := n
		if first[n] != i || n == ProcessingDateColumn {
			for k := 2; ; k++ {
				candidate := fmt.Sprintf("%s_%d", n, k)
				if !taken[candidate] {
					name = candidate
					break
				}
			}
			taken[name] = true
		}
		cols[i] = Column{Source: i, Name: name}
	}
	return cols
}

// renameOverwrite keeps only the last column for each label, in its own
// position. A column normalizing to ProcessingDateColumn is dropped in favour
// of the generated one.
func renameOverwrite(norm []string) []Column {
	last := make(map[string]int, len(norm))
	for i, n := range norm {
		last[n] = i
	}

	var cols []Column
	for i, n := range norm {
		if last[n] != i || n == ProcessingDateColumn {
			continue
		}
		cols = append(cols, Column{Source: i, Name: n})
	}
	return cols
}
