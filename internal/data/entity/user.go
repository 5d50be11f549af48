package entity

type User struct {
	ID           string   `db:"id" bson:"_id"`
	Email        string   `db:"email" bson:"email"`
	PasswordHash string   `db:"password" bson:"password"`
	Movies       []string `db:"movies" bson:"movies"`
	Timestamps   `bson:",inline"`
}
