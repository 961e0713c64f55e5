package entity

type User struct {
	ID       int     `json:"id"`
	Username string  `json:"username"`
	Password string  `json:"password"` // stored as given, never serialized by schema
	Email    *string `json:"email"`
}

/*
SQLite table:

CREATE TABLE IF NOT EXISTS `user` (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username VARCHAR(255) NOT NULL UNIQUE,
	password VARCHAR(255) NOT NULL,
	email VARCHAR(255) UNIQUE
);
*/
