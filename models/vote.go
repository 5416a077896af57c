// models/vote.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Candidate is a votesection entry. The enrollment number is the stable key
// the frontend votes against; Votes is the running tally.
type Candidate struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EnrollmentNum string             `json:"enrollmentnum" bson:"enrollmentnum"`
	Name          string             `json:"name" bson:"name"`
	Imgsrc        string             `json:"imgsrc,omitempty" bson:"imgsrc,omitempty"`
	Votes         int                `json:"votes" bson:"votes"`
}

// Vote records a single ballot. The unique index on email is what enforces
// the one-vote-per-student invariant; the tally on Candidate is derived.
type Vote struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ReceiptID     string             `json:"receiptId" bson:"receiptId"`
	Email         string             `json:"email" bson:"email"`
	EnrollmentNum string             `json:"enrollmentnum" bson:"enrollmentnum"`
	CastAt        time.Time          `json:"castAt" bson:"castAt"`
}

type VoteRequest struct {
	Email         string `json:"email"`
	EnrollmentNum string `json:"enrollmentnum"`
}

type VoteStatusResponse struct {
	HasVoted bool `json:"hasVoted"`
}
