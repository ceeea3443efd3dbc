package describe

import "context"

// Request is a single completion call. ImageURL, when set, is sent alongside
// the prompt so the model can look at the picture.
type Request struct {
	System    string
	Prompt    string
	ImageURL  string
	ImageMIME string
	// JSON asks the model to answer with a JSON document.
	JSON bool
}

// Model is a text-generating language model.
type Model interface {
	Complete(ctx context.Context, req Request) (string, error)
}
