package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf-service/internal/entity"
)

func strPtr(s string) *string { return &s }

func TestDumpBook(t *testing.T) {
	b := &entity.Book{ID: 1, Title: "Dune", Author: "Herbert", Review: strPtr("great")}

	out, err := json.Marshal(DumpBook(b))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"title":"Dune","author":"Herbert","review":"great"}`, string(out))
}

func TestDumpUserOmitsPassword(t *testing.T) {
	u := &entity.User{ID: 4, Username: "paul", Password: "muaddib", Email: strPtr("paul@arrakis.test")}

	out, err := json.Marshal(DumpUser(u))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":4,"username":"paul","email":"paul@arrakis.test"}`, string(out))
	assert.NotContains(t, string(out), "password")
	assert.NotContains(t, string(out), "muaddib")

	out, err = json.Marshal(DumpUsers([]*entity.User{u}))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "muaddib")
}

func TestDumpManyEmpty(t *testing.T) {
	out, err := json.Marshal(DumpBooks(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))

	out, err = json.Marshal(DumpUsers(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestBookTuples(t *testing.T) {
	views := DumpBooks([]*entity.Book{
		{ID: 1, Title: "Dune", Author: "Herbert", Review: strPtr("great")},
		{ID: 2, Title: "Emma", Author: "Austen"},
	})

	out, err := json.Marshal(BookTuples(views))
	require.NoError(t, err)
	assert.JSONEq(t, `[[1,"Dune","Herbert","great"],[2,"Emma","Austen",null]]`, string(out))
}
