package entity

// ReviewMaxLength bounds the review column.
const ReviewMaxLength = 200

type Book struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Review *string `json:"review"`
}

// BookPatch carries the fields of a partial update. Nil fields keep their
// stored value.
type BookPatch struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Review *string `json:"review"`
}

// Apply copies the supplied fields onto b.
func (p BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Review != nil {
		b.Review = p.Review
	}
}

/*
SQLite table:

CREATE TABLE IF NOT EXISTS `book` (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title VARCHAR(255) NOT NULL UNIQUE,
	author VARCHAR(255) NOT NULL,
	review VARCHAR(200)
);
*/
