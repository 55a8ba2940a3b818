package domain

// RatingSubmission is an ephemeral star-rating entry. It is constructed
// once per submission and forwarded to the email relay; the server keeps
// nothing afterwards. Any "already rated" tracking is a browser-side
// nicety the server does not corroborate.
type RatingSubmission struct {
	Stars    int    `json:"stars"`
	Email    string `json:"email"`
	Feedback string `json:"feedback"`
}
