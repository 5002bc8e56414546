package models

import "time"

// ProblemType is a catalog label offered by the public form.
type ProblemType struct {
	ID        int       `json:"id"`
	Label     string    `json:"label"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultProblemTypes seeds an empty catalog and serves as the client
// fallback when the catalog cannot be fetched.
var DefaultProblemTypes = []string{
	"AMELIORATION",
	"NON CONFORMITE",
	"SITUATION DANGEREUSE",
	"INFORMATION SUITE A UNE CAUSERIE",
}

// CreateProblemTypeRequest is the body of POST /types.
type CreateProblemTypeRequest struct {
	Label string `json:"label"`
}

// UpdateProblemTypeRequest is the body of PATCH /types/{id}.
type UpdateProblemTypeRequest struct {
	IsActive *bool `json:"is_active"`
}
