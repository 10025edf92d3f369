package handler

// ErrorResponse is the error envelope returned by every endpoint. Only
// display-safe messages go in here; raw driver errors never cross this
// boundary.
type ErrorResponse struct {
	Error string `json:"error"`
}
