// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package query

import (
	"reflect"
	"testing"
)

func TestWhereBuilder_Empty(t *testing.T) {
	t.Parallel()

	wb := NewWhereBuilder()
	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}
	if wb.Count() != 0 {
		t.Errorf("Expected count 0, got %d", wb.Count())
	}

	whereClause, args := wb.Build()
	if whereClause != "1=1" {
		t.Errorf("Expected '1=1' for empty builder, got %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestWhereBuilder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		build     func(*WhereBuilder)
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "single in",
			build:     func(wb *WhereBuilder) { wb.AddIn("enrichment_status", []string{"complete"}) },
			wantWhere: "enrichment_status IN (?)",
			wantArgs:  []interface{}{"complete"},
		},
		{
			name:      "multi in",
			build:     func(wb *WhereBuilder) { wb.AddIn("id", []string{"a", "b", "c"}) },
			wantWhere: "id IN (?, ?, ?)",
			wantArgs:  []interface{}{"a", "b", "c"},
		},
		{
			name:      "empty in skipped",
			build:     func(wb *WhereBuilder) { wb.AddIn("id", nil) },
			wantWhere: "1=1",
			wantArgs:  []interface{}{},
		},
		{
			name: "clauses chain with AND",
			build: func(wb *WhereBuilder) {
				wb.AddIn("enrichment_status", []string{"complete"}).
					AddClause("trim(signals) <> ?", "[]").
					AddClause("signal_count >= ?", 3)
			},
			wantWhere: "enrichment_status IN (?) AND trim(signals) <> ? AND signal_count >= ?",
			wantArgs:  []interface{}{"complete", "[]", 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wb := NewWhereBuilder()
			tt.build(wb)

			where, args := wb.Build()
			if where != tt.wantWhere {
				t.Errorf("where = %q, want %q", where, tt.wantWhere)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestWhereBuilder_BuildWithPrefix(t *testing.T) {
	t.Parallel()

	wb := NewWhereBuilder().AddClause("id = ?", "x")
	where, args := wb.BuildWithPrefix()
	if where != "WHERE id = ?" {
		t.Errorf("Expected prefixed clause, got %q", where)
	}
	if len(args) != 1 || wb.Count() != 1 || wb.IsEmpty() {
		t.Errorf("unexpected builder state: args=%v count=%d", args, wb.Count())
	}
}

func TestWhereBuilder_DocumentedExample(t *testing.T) {
	t.Parallel()

	wb := NewWhereBuilder()
	wb.AddIn("enrichment_status", []string{"complete"})
	wb.AddClause("signal_count >= ?", 1)
	where, args := wb.BuildWithPrefix()

	if want := "WHERE enrichment_status IN (?) AND signal_count >= ?"; where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if len(args) != 2 || args[0] != "complete" || args[1] != 1 {
		t.Errorf("args = %v, want [complete 1]", args)
	}
}
