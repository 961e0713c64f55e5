package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestBookPatchApply(t *testing.T) {
	tests := []struct {
		name  string
		patch BookPatch
		want  Book
	}{
		{
			name:  "review only",
			patch: BookPatch{Review: strPtr("classic")},
			want:  Book{ID: 1, Title: "Dune", Author: "Herbert", Review: strPtr("classic")},
		},
		{
			name:  "title and author",
			patch: BookPatch{Title: strPtr("Dune Messiah"), Author: strPtr("F. Herbert")},
			want:  Book{ID: 1, Title: "Dune Messiah", Author: "F. Herbert", Review: strPtr("great")},
		},
		{
			name:  "empty patch",
			patch: BookPatch{},
			want:  Book{ID: 1, Title: "Dune", Author: "Herbert", Review: strPtr("great")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Book{ID: 1, Title: "Dune", Author: "Herbert", Review: strPtr("great")}
			tt.patch.Apply(&b)
			assert.Equal(t, tt.want, b)
		})
	}
}

func TestEventKey(t *testing.T) {
	e := Event{Entity: EntityBook, Action: ActionDeleted, EntityID: 12}
	assert.Equal(t, "book.deleted.12", e.Key())
}
