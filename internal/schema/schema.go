// Package schema converts records into their wire views. Each entity has a
// fixed field selection; the tuple projection is derived from the same view
// so both shapes stay in step.
package schema

import "bookshelf-service/internal/entity"

// BookView is the serialized form of a book: id, title, author, review.
type BookView struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Review *string `json:"review"`
}

// UserView is the serialized form of a user. The password is not part of it.
type UserView struct {
	ID       int     `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

func DumpBook(b *entity.Book) BookView {
	return BookView{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Review: b.Review,
	}
}

// DumpBooks never returns nil so an empty table serializes as [].
func DumpBooks(books []*entity.Book) []BookView {
	views := make([]BookView, 0, len(books))
	for _, b := range books {
		views = append(views, DumpBook(b))
	}
	return views
}

func DumpUser(u *entity.User) UserView {
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

func DumpUsers(users []*entity.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, DumpUser(u))
	}
	return views
}

// Tuple projects the view as [id, title, author, review].
func (v BookView) Tuple() []any {
	var review any
	if v.Review != nil {
		review = *v.Review
	}
	return []any{v.ID, v.Title, v.Author, review}
}

func BookTuples(views []BookView) [][]any {
	tuples := make([][]any, 0, len(views))
	for _, v := range views {
		tuples = append(tuples, v.Tuple())
	}
	return tuples
}
