package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Movie is a catalog entry. This service never writes movies; comment
// mutations return a movie refreshed through the lookup pipeline, with
// Comments populated newest first.
type Movie struct {
	ID       primitive.ObjectID `json:"id"                 bson:"_id,omitempty"`
	Title    string             `json:"title"              bson:"title"`
	Year     int                `json:"year,omitempty"     bson:"year,omitempty"`
	Plot     string             `json:"plot,omitempty"     bson:"plot,omitempty"`
	Genres   []string           `json:"genres,omitempty"   bson:"genres,omitempty"`
	Cast     []string           `json:"cast,omitempty"     bson:"cast,omitempty"`
	Poster   string             `json:"poster,omitempty"   bson:"poster,omitempty"`
	Runtime  int                `json:"runtime,omitempty"  bson:"runtime,omitempty"`
	Comments []Comment          `json:"comments"           bson:"comments,omitempty"`
}

// Comment is a user comment on a movie. Owner name and email are captured
// at creation time; the email in the document is what every mutation
// filter matches against.
type Comment struct {
	ID      primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name    string             `json:"name"         bson:"name"`
	Email   string             `json:"email"        bson:"email"`
	MovieID primitive.ObjectID `json:"movie_id"     bson:"movie_id"`
	Text    string             `json:"text"         bson:"text"`
	Date    time.Time          `json:"date"         bson:"date"`
}

// CommenterStat is one row of the most-active-commenters report.
type CommenterStat struct {
	Email string `json:"email" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// CommentRequest is the JSON body for comment create/update calls.
type CommentRequest struct {
	Text string `json:"text"`
}
