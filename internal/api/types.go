package api

import (
	"encoding/json"
	"fmt"
	"math"
)

// Message roles as the backend expects them.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation turn in the outbound query payload.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Token is the result of a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
}

// DocumentRef identifies one uploaded document owned by the caller.
type DocumentRef struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
}

// UploadResult reports what the backend did with an uploaded PDF.
type UploadResult struct {
	NumChunks int `json:"num_chunks"`
}

// QueryRequest asks a question with conversation context. ConversationID is
// omitted until the backend assigns one.
type QueryRequest struct {
	Question       string    `json:"question"`
	History        []Message `json:"conversation_history"`
	ConversationID string    `json:"conversation_id,omitempty"`
}

// QueryResponse carries the answer to a single question. Answer is kept raw
// because the backend returns it as a string, a fragment list, or an object —
// see NormalizeAnswer.
type QueryResponse struct {
	Answer         json.RawMessage `json:"answer"`
	Sources        []Source        `json:"sources,omitempty"`
	ConversationID string          `json:"conversation_id,omitempty"`
}

// Source is one retrieval citation attached to an answer. Score fields are
// pointers so a present zero score is distinguishable from an absent one.
type Source struct {
	ChunkIndex      int      `json:"chunk_index"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
	HybridScore     *float64 `json:"hybrid_score,omitempty"`
	RerankScore     *float64 `json:"rerank_score,omitempty"`
}

// Relevance returns the citation's relevance as an integer percentage, taken
// from the first present score in precedence order: similarity, hybrid, rerank.
func (s Source) Relevance() int {
	for _, score := range []*float64{s.SimilarityScore, s.HybridScore, s.RerankScore} {
		if score != nil {
			return int(math.Round(*score * 100))
		}
	}
	return 0
}

// APIError is an application-level rejection: the backend responded with a
// non-2xx status. Detail carries the server's human-readable message when the
// body had one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// credentials is the login/signup request body.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// documentList is the GET /my-contracts response envelope.
type documentList struct {
	Contracts []DocumentRef `json:"contracts"`
	Total     int           `json:"total"`
}
