package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department is one organizational unit mentioned in a document, with its
// contact address when the document provides one. Entries keep the order in
// which they were detected and are not deduplicated.
type Department struct {
	Name  string  `bson:"name" json:"name"`
	Email *string `bson:"email" json:"email"`
}

// Document is the persisted result of one successful ingestion run.
// Records are insert-only: there is no update path after creation.
type Document struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Filename      string             `bson:"filename" json:"filename"`
	ExtractedText string             `bson:"extracted_text" json:"extracted_text"`
	Summary       string             `bson:"summary" json:"summary"`
	Departments   []Department       `bson:"departments" json:"departments"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// Notification is a single pending email about one department. It is
// consumed exactly once by the dispatcher and never persisted.
type Notification struct {
	AttemptID  string
	Department string
	Email      string
	Subject    string
	Summary    string
}

// SummaryResponse is the upload endpoint's payload.
type SummaryResponse struct {
	Filename    string       `json:"filename"`
	Departments []Department `json:"departments"`
	Summary     string       `json:"summary"`
	MongoID     string       `json:"mongo_id"`
}

// ChatRequest asks a question about a previously ingested document.
type ChatRequest struct {
	MongoID  string `json:"mongo_id"`
	Question string `json:"question"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

// Pagination describes one bounded slice of the document collection.
// It is recomputed on every request, never stored.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// DocumentPage is the list endpoint's payload.
type DocumentPage struct {
	Data       []Document `json:"data"`
	Pagination Pagination `json:"pagination"`
}
