// Package gemini implements generation.Completer on top of Google's Gemini
// API (google.golang.org/genai). Requests ask for an application/json
// response; safety blocks and transport failures surface as
// generation.ErrUpstream.
package gemini
